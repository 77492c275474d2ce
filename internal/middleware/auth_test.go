package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/task-tracker-api/internal/auth"
	"github.com/taskforge/task-tracker-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthTestRouter(tokens *auth.TokenManager) *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	r := newAuthTestRouter(tokens)

	token, err := tokens.Issue("507f1f77bcf86cd799439011", models.RoleUser)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "507f1f77bcf86cd799439011", body["user_id"])
	assert.Equal(t, "user", body["role"])
}

func TestRequireAuth_MissingOrWrongScheme(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	r := newAuthTestRouter(tokens)

	token, err := tokens.Issue("507f1f77bcf86cd799439011", models.RoleUser)
	require.NoError(t, err)

	// No header and a non-bearer scheme are both treated as no token.
	for _, header := range []string{"", "Token " + token, token} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	r := newAuthTestRouter(tokens)

	expired := auth.NewTokenManager("test-secret", -time.Minute)
	expiredToken, err := expired.Issue("507f1f77bcf86cd799439011", models.RoleUser)
	require.NoError(t, err)

	wrongSecret := auth.NewTokenManager("other-secret", time.Hour)
	forgedToken, err := wrongSecret.Issue("507f1f77bcf86cd799439011", models.RoleUser)
	require.NoError(t, err)

	// Expired and forged tokens reject with the same message.
	wExpired := doRequest(r, "Bearer "+expiredToken)
	wForged := doRequest(r, "Bearer "+forgedToken)
	require.Equal(t, http.StatusUnauthorized, wExpired.Code)
	require.Equal(t, http.StatusUnauthorized, wForged.Code)
	assert.Equal(t, wExpired.Body.String(), wForged.Body.String())
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	r := gin.New()
	r.GET("/admin", RequireAuth(tokens), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	adminToken, err := tokens.Issue("507f1f77bcf86cd799439011", models.RoleAdmin)
	require.NoError(t, err)
	userToken, err := tokens.Issue("507f191e810c19729de860ea", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

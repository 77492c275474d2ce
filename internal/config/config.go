package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             string
	MongoURI         string
	DBName           string
	JWTSecret        string
	TokenExpiry      time.Duration
	BcryptCost       int
	RateLimitWindow  time.Duration
	RateLimitMax     int
	AuthRateLimitMax int
	GinMode          string
}

// Load reads configuration from the environment. The signing secret has
// no default; token issuance must fail fast rather than run with a
// guessable key.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:           getEnv("DB_NAME", "task_tracker"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenExpiry:      time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 168)) * time.Hour,
		BcryptCost:       getEnvInt("BCRYPT_COST", 10),
		RateLimitWindow:  time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		AuthRateLimitMax: getEnvInt("AUTH_RATE_LIMIT_MAX_REQUESTS", 5),
		GinMode:          getEnv("GIN_MODE", "debug"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

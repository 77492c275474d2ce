package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/taskforge/task-tracker-api/internal/models"
)

const (
	MinPasswordLength    = 6
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result carries the outcome of validating one request. All violations are
// accumulated; callers report the full list rather than the first failure.
type Result struct {
	Valid  bool
	Errors []string
}

func newResult(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateRegistration checks the registration fields and collects every
// violation.
func ValidateRegistration(email, password, name string) Result {
	var errs []string

	if strings.TrimSpace(email) == "" {
		errs = append(errs, "Email is required")
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, "Invalid email format")
	}

	if strings.TrimSpace(password) == "" {
		errs = append(errs, "Password is required")
	} else if len(password) < MinPasswordLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "Name is required")
	}

	return newResult(errs)
}

// ValidateLogin only checks presence. Format checking is deliberately
// skipped so that malformed and unregistered emails fail identically.
func ValidateLogin(email, password string) Result {
	var errs []string

	if strings.TrimSpace(email) == "" {
		errs = append(errs, "Email is required")
	}
	if strings.TrimSpace(password) == "" {
		errs = append(errs, "Password is required")
	}

	return newResult(errs)
}

// ValidateTaskCreation checks title and description presence and length.
func ValidateTaskCreation(title, description string) Result {
	var errs []string

	if strings.TrimSpace(title) == "" {
		errs = append(errs, "Title is required")
	} else if len(title) > MaxTitleLength {
		errs = append(errs, fmt.Sprintf("Title must not exceed %d characters", MaxTitleLength))
	}

	if strings.TrimSpace(description) == "" {
		errs = append(errs, "Description is required")
	} else if len(description) > MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("Description must not exceed %d characters", MaxDescriptionLength))
	}

	return newResult(errs)
}

// ValidateTaskStatusUpdate accepts an empty status (no-op update) or one of
// the known task statuses.
func ValidateTaskStatusUpdate(status string) Result {
	if status != "" && !models.IsValidTaskStatus(models.TaskStatus(status)) {
		names := make([]string, len(models.ValidTaskStatuses))
		for i, s := range models.ValidTaskStatuses {
			names[i] = string(s)
		}
		return newResult([]string{"Status must be one of: " + strings.Join(names, ", ")})
	}
	return newResult(nil)
}

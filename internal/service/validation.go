package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var handlePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,49}$`)

// normalizeHandle lowercases and checks an account handle.
func normalizeHandle(handle string) (string, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	if !handlePattern.MatchString(handle) {
		return "", apperrors.NewValidationError("handle",
			"handle must be 3-50 characters of lowercase letters, digits, dots, dashes or underscores", nil)
	}
	return handle, nil
}

func validateEmail(field, email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return apperrors.NewValidationError(field, "invalid email address", nil)
	}
	return nil
}

package handlers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgauth "github.com/BradenHooton/meular/pkg/auth"
)

var (
	publicIDPattern   = regexp.MustCompile(`^[0-9a-z]{12}$`)
	recoveryIDPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	usernamePattern   = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
)

// Global validator instance (reused across all handlers)
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return pkgauth.ValidatePassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("publicid", func(fl validator.FieldLevel) bool {
		return publicIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("recoveryid", func(fl validator.FieldLevel) bool {
		return recoveryIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(strings.ToLower(fl.Field().String()))
	})
	return v
}

// ValidateRequest validates a request struct using go-playground/validator
// Returns a user-friendly error message if validation fails
func ValidateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			return fmt.Errorf("validation failed: %s: %s", fe.Field(), formatValidationError(fe))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "strongpassword":
		return fmt.Sprintf("must be %d to %d characters with upper and lower case letters, a digit and a symbol",
			pkgauth.MinPasswordLen, pkgauth.MaxPasswordLen)
	case "publicid", "recoveryid":
		return "is not a valid identifier"
	case "username":
		return "must be 3 to 20 letters, digits or underscores"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

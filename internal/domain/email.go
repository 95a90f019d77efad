package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailValidator = validator.New()

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail returns ErrEmptyEmail or ErrInvalidEmail for unusable addresses.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if err := emailValidator.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// SameEmail compares two addresses ignoring case and surrounding whitespace.
// Empty addresses never match.
func SameEmail(a, b string) bool {
	na, nb := NormalizeEmail(a), NormalizeEmail(b)
	return na != "" && na == nb
}

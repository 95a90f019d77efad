package auth

import "errors"

// Common authentication errors
var (
	// ErrMissingToken indicates no bearer token was provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingEmail indicates a structurally valid token without a usable email claim.
	ErrMissingEmail = errors.New("authentication token has no email")

	// ErrVerifierUnavailable indicates the identity provider could not answer in time.
	ErrVerifierUnavailable = errors.New("identity verification unavailable")
)

// IsRejection reports whether err means the token itself was rejected, as
// opposed to the verifier failing.
func IsRejection(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrTokenNotYetValid) ||
		errors.Is(err, ErrMissingEmail)
}

package validator

import (
	"errors"
	"fmt"
)

// Sentinel errors for the distinct validation outcomes. Every error
// returned by Validator.ValidateToken matches exactly one of these
// via errors.Is.
var (
	// ErrInvalidTokenStructure is returned when the raw token cannot be
	// decoded: wrong segment count, invalid base64url, invalid JSON, a
	// non-object claim set, or a time claim that is not an integer
	// number of seconds.
	ErrInvalidTokenStructure = errors.New("invalid token structure")

	// ErrMissingRequiredClaim is returned when a claim marked as required
	// is absent from the token body. Use MissingClaimError to find out
	// which claim was missing.
	ErrMissingRequiredClaim = errors.New("missing required claim")

	// ErrTokenExpired is returned when the current time is at or after
	// the token's expiration instant, after allowing for clock skew.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenNotYetValid is returned when the current time, extended by
	// the allowed clock skew, still precedes the token's nbf instant.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrInvalidAudience is returned when the token carries an aud claim
	// that does not contain any of the expected audiences.
	ErrInvalidAudience = errors.New("invalid audience")
)

// MissingClaimError reports which required claim was absent. It supports
// equality to ErrMissingRequiredClaim through errors.Is.
type MissingClaimError struct {
	Claim string
}

func (e *MissingClaimError) Error() string {
	return fmt.Sprintf("missing required claim %q", e.Claim)
}

// Is allows the error to support equality to ErrMissingRequiredClaim.
func (e *MissingClaimError) Is(target error) bool {
	return target == ErrMissingRequiredClaim
}

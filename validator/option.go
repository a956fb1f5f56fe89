package validator

import (
	"errors"
	"fmt"
	"time"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithAudience sets a single expected audience for the aud claim.
// Required whenever audience validation is enabled, which it is by
// default.
func WithAudience(audience string) Option {
	return func(v *Validator) error {
		if audience == "" {
			return errors.New("audience cannot be empty")
		}
		v.expectedAudiences = []string{audience}
		return nil
	}
}

// WithAudiences sets multiple expected audiences for the aud claim.
// A token passes when its aud claim contains at least one of them.
func WithAudiences(audiences []string) Option {
	return func(v *Validator) error {
		if len(audiences) == 0 {
			return errors.New("audiences cannot be empty")
		}
		for i, aud := range audiences {
			if aud == "" {
				return fmt.Errorf("audience at index %d cannot be empty", i)
			}
		}
		v.expectedAudiences = audiences
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance applied when validating the
// exp and nbf claims, absorbing clock differences between the issuer
// and this validator.
//
// Default: 0 (no clock skew allowed).
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithClock replaces the time source used for exp and nbf checks.
//
// Default: time.Now.
func WithClock(clock Clock) Option {
	return func(v *Validator) error {
		if clock == nil {
			return errors.New("clock cannot be nil")
		}
		v.clock = clock
		return nil
	}
}

// WithExpirationValidation enables or disables the expiration check.
// When disabled the exp claim is never examined.
//
// Default: enabled.
func WithExpirationValidation(enabled bool) Option {
	return func(v *Validator) error {
		v.validateExpiration = enabled
		return nil
	}
}

// WithExpirationRequired controls whether a token missing the exp claim
// is rejected. Only consulted while expiration validation is enabled.
//
// Default: required.
func WithExpirationRequired(required bool) Option {
	return func(v *Validator) error {
		v.requireExpiration = required
		return nil
	}
}

// WithNotBeforeValidation enables or disables the nbf check.
//
// Default: enabled.
func WithNotBeforeValidation(enabled bool) Option {
	return func(v *Validator) error {
		v.validateNotBefore = enabled
		return nil
	}
}

// WithNotBeforeRequired controls whether a token missing the nbf claim
// is rejected. Only consulted while not-before validation is enabled.
//
// Default: required.
func WithNotBeforeRequired(required bool) Option {
	return func(v *Validator) error {
		v.requireNotBefore = required
		return nil
	}
}

// WithAudienceValidation enables or disables the aud check.
//
// Default: enabled.
func WithAudienceValidation(enabled bool) Option {
	return func(v *Validator) error {
		v.validateAudience = enabled
		return nil
	}
}

// WithAudienceRequired controls whether a token missing the aud claim
// is rejected. Only consulted while audience validation is enabled.
//
// Default: required.
func WithAudienceRequired(required bool) Option {
	return func(v *Validator) error {
		v.requireAudience = required
		return nil
	}
}

// WithCustomClaims sets a function that returns a CustomClaims object
// for unmarshalling and validation.
//
// The function is called once per ValidateToken call to create a fresh
// instance. Its Validate method runs after all registered-claim checks
// pass.
func WithCustomClaims(f func() CustomClaims) Option {
	return func(v *Validator) error {
		if f == nil {
			return errors.New("custom claims function cannot be nil")
		}
		v.customClaims = f
		return nil
	}
}

// WithSignatureVerifier sets the caller-provided signature capability.
// Without one the signature segment is carried through untouched and
// the returned token is NOT authenticated.
func WithSignatureVerifier(verifier SignatureVerifier) Option {
	return func(v *Validator) error {
		if verifier == nil {
			return errors.New("signature verifier cannot be nil")
		}
		v.verifier = verifier
		return nil
	}
}

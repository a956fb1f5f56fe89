package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SignatureVerifier checks the signature or MAC over a token. It is an
// external capability: this package decodes and applies claim policy but
// never verifies authenticity itself.
//
// signingInput is the "header.body" portion of the compact serialization
// and signature is the decoded third segment. alg is the value of the
// header's alg parameter; rejecting untrusted algorithms is the
// verifier's responsibility.
type SignatureVerifier interface {
	Verify(signingInput, signature []byte, alg string) error
}

// Validator decodes compact-serialization JWTs and enforces the
// configured claim policies. It is immutable after New and safe for
// concurrent use; ValidateToken touches no shared mutable state.
type Validator struct {
	clock             Clock
	allowedClockSkew  time.Duration
	expectedAudiences []string

	validateExpiration bool
	requireExpiration  bool
	validateNotBefore  bool
	requireNotBefore   bool
	validateAudience   bool
	requireAudience    bool

	customClaims func() CustomClaims
	verifier     SignatureVerifier
}

// New sets up a Validator. The default posture is the strict one: all
// three claim validations enabled, all three claims required, and zero
// clock skew. Loosen individual policies through options.
//
// Because audience validation is on by default, an expected audience
// must be configured unless WithAudienceValidation(false) is passed.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		clock:              time.Now,
		validateExpiration: true,
		requireExpiration:  true,
		validateNotBefore:  true,
		requireNotBefore:   true,
		validateAudience:   true,
		requireAudience:    true,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.validateAudience && len(v.expectedAudiences) == 0 {
		return nil, errors.New("an expected audience is required while audience validation is enabled")
	}

	return v, nil
}

// ValidateToken decodes the raw token and runs every enabled claim
// policy against it. Evaluation order is fixed: structural decode,
// signature verifier (when configured), expiration, not-before,
// audience, then custom claims. The first failure short-circuits and a
// Token is returned only when everything passed.
func (v *Validator) ValidateToken(ctx context.Context, rawToken string) (*Token, error) {
	token, err := Decode(rawToken)
	if err != nil {
		return nil, err
	}

	if v.verifier != nil {
		signature, err := DecodeSegment(token.Signature)
		if err != nil {
			return nil, fmt.Errorf("%w: signature: %v", ErrInvalidTokenStructure, err)
		}
		if err := v.verifier.Verify(token.SigningInput(), signature, token.Header.Algorithm); err != nil {
			return nil, fmt.Errorf("signature verification failed: %w", err)
		}
	}

	// One snapshot per call, shared by the exp and nbf checks.
	now := v.clock().Unix()

	if err := v.checkExpiration(token.Body, now); err != nil {
		return nil, err
	}
	if err := v.checkNotBefore(token.Body, now); err != nil {
		return nil, err
	}
	if err := v.checkAudience(token.Body); err != nil {
		return nil, err
	}

	if v.customClaims != nil {
		claims := v.customClaims()
		if claims != nil {
			if err := json.Unmarshal(token.bodyBytes, claims); err != nil {
				return nil, fmt.Errorf("could not deserialize custom claims: %w", err)
			}
			if err := claims.Validate(ctx); err != nil {
				return nil, fmt.Errorf("custom claims not validated: %w", err)
			}
			token.CustomClaims = claims
		}
	}

	return token, nil
}

// checkExpiration rejects a token whose expiration instant has been
// reached. The boundary is inclusive: a token is invalid at its exact
// exp second, even after the skew allowance.
func (v *Validator) checkExpiration(body Body, now int64) error {
	if !v.validateExpiration {
		return nil
	}
	if body.ExpirationTime == nil {
		if v.requireExpiration {
			return &MissingClaimError{Claim: ClaimExpirationTime}
		}
		return nil
	}
	if now-skewSeconds(v.allowedClockSkew) >= *body.ExpirationTime {
		return ErrTokenExpired
	}
	return nil
}

// checkNotBefore mirrors checkExpiration: a token becomes valid at its
// exact nbf second.
func (v *Validator) checkNotBefore(body Body, now int64) error {
	if !v.validateNotBefore {
		return nil
	}
	if body.NotBefore == nil {
		if v.requireNotBefore {
			return &MissingClaimError{Claim: ClaimNotBefore}
		}
		return nil
	}
	if now+skewSeconds(v.allowedClockSkew) < *body.NotBefore {
		return ErrTokenNotYetValid
	}
	return nil
}

func (v *Validator) checkAudience(body Body) error {
	if !v.validateAudience {
		return nil
	}
	if _, ok := body.Claims[ClaimAudience]; !ok {
		if v.requireAudience {
			return &MissingClaimError{Claim: ClaimAudience}
		}
		return nil
	}
	for _, expected := range v.expectedAudiences {
		for _, aud := range body.Audience {
			if aud == expected {
				return nil
			}
		}
	}
	return ErrInvalidAudience
}

func skewSeconds(skew time.Duration) int64 {
	return int64(skew / time.Second)
}

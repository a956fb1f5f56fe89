package validator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(unix int64) Clock {
	return func() time.Time {
		return time.Unix(unix, 0)
	}
}

type testClaims struct {
	Scope       string `json:"scope"`
	ReturnError error  `json:"-"`
}

func (tc *testClaims) Validate(context.Context) error {
	return tc.ReturnError
}

func TestValidator_ValidateToken(t *testing.T) {
	const (
		exp = int64(1700000000)
		nbf = int64(1600000000)
	)

	body := `{"aud":"my-api","exp":1700000000,"nbf":1600000000}`

	testCases := []struct {
		name          string
		raw           string
		options       []Option
		expectedError error
	}{
		{
			name: "it validates a token inside its validity window",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
			},
		},
		{
			name: "it rejects a token at its exact expiration instant",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp)),
			},
			expectedError: ErrTokenExpired,
		},
		{
			name: "it accepts one second before expiration",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
			},
		},
		{
			name: "it extends the expiry window by the allowed clock skew",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp + 29)),
				WithAllowedClockSkew(30 * time.Second),
			},
		},
		{
			name: "it rejects at the skew-adjusted expiration boundary",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp + 30)),
				WithAllowedClockSkew(30 * time.Second),
			},
			expectedError: ErrTokenExpired,
		},
		{
			name: "it accepts a token at its exact nbf instant",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(nbf)),
			},
		},
		{
			name: "it rejects a token one second before nbf",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(nbf - 1)),
			},
			expectedError: ErrTokenNotYetValid,
		},
		{
			name: "it lets clock skew bridge the nbf gap",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(nbf - 30)),
				WithAllowedClockSkew(30 * time.Second),
			},
		},
		{
			name: "it rejects a required exp claim that is missing",
			raw:  token("{}", `{"aud":"my-api","nbf":1600000000}`),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
			},
			expectedError: ErrMissingRequiredClaim,
		},
		{
			name: "it tolerates a missing exp claim when not required",
			raw:  token("{}", `{"aud":"my-api","nbf":1600000000}`),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
				WithExpirationRequired(false),
			},
		},
		{
			name: "it ignores an expired exp claim when validation is disabled",
			raw:  token("{}", body),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp + 100)),
				WithExpirationValidation(false),
			},
		},
		{
			name: "it rejects a required nbf claim that is missing",
			raw:  token("{}", `{"aud":"my-api","exp":1700000000}`),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
			},
			expectedError: ErrMissingRequiredClaim,
		},
		{
			name: "it matches the expected audience inside an array",
			raw:  token("{}", `{"aud":["other","my-api"],"exp":1700000000,"nbf":1600000000}`),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
			},
		},
		{
			name: "it rejects an audience that does not contain the expected value",
			raw:  token("{}", `{"aud":["other","another"],"exp":1700000000,"nbf":1600000000}`),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
			},
			expectedError: ErrInvalidAudience,
		},
		{
			name: "it rejects an aud claim of the wrong type",
			raw:  token("{}", `{"aud":42,"exp":1700000000,"nbf":1600000000}`),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
			},
			expectedError: ErrInvalidAudience,
		},
		{
			name: "it accepts any of multiple expected audiences",
			raw:  token("{}", body),
			options: []Option{
				WithAudiences([]string{"unused", "my-api"}),
				WithClock(fixedClock(exp - 1)),
			},
		},
		{
			name: "it rejects a required aud claim that is missing",
			raw:  token("{}", `{"exp":1700000000,"nbf":1600000000}`),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
			},
			expectedError: ErrMissingRequiredClaim,
		},
		{
			name: "it tolerates a missing aud claim when not required",
			raw:  token("{}", `{"exp":1700000000,"nbf":1600000000}`),
			options: []Option{
				WithAudience("my-api"),
				WithClock(fixedClock(exp - 1)),
				WithAudienceRequired(false),
			},
		},
		{
			name: "it decodes an empty body when every validation is disabled",
			raw:  "e30.e30.",
			options: []Option{
				WithExpirationValidation(false),
				WithNotBeforeValidation(false),
				WithAudienceValidation(false),
			},
		},
		{
			name:    "it rejects an empty body under the default strict posture",
			raw:     "eyJhbGciOiJIUzI1NiJ9.e30.ZRrHA1JJJW8opsbCGfG_HACGpVUMN_a9IV7pAx_Zmeo",
			options: []Option{WithAudience("my-api")},
			// No exp claim, and exp is required by default.
			expectedError: ErrMissingRequiredClaim,
		},
		{
			name: "it reports a structural error before any claim policy",
			raw:  token("{}", `{"exp":"123"}`),
			options: []Option{
				WithAudience("my-api"),
				WithExpirationValidation(false),
				WithNotBeforeValidation(false),
				WithAudienceValidation(false),
			},
			expectedError: ErrInvalidTokenStructure,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			v, err := New(testCase.options...)
			require.NoError(t, err)

			decoded, err := v.ValidateToken(context.Background(), testCase.raw)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				assert.Nil(t, decoded)
			} else {
				require.NoError(t, err)
				require.NotNil(t, decoded)
			}
		})
	}
}

func TestValidator_MissingClaimErrorNamesTheClaim(t *testing.T) {
	v, err := New(
		WithAudience("my-api"),
		WithClock(fixedClock(1)),
	)
	require.NoError(t, err)

	_, err = v.ValidateToken(context.Background(), token("{}", `{"aud":"my-api","nbf":0}`))
	var missing *MissingClaimError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ClaimExpirationTime, missing.Claim)
}

func TestValidator_RFC7519ExampleToken(t *testing.T) {
	v, err := New(
		WithClock(fixedClock(1300819379)),
		WithNotBeforeRequired(false),
		WithAudienceValidation(false),
	)
	require.NoError(t, err)

	decoded, err := v.ValidateToken(context.Background(), rfc7519ExampleToken)
	require.NoError(t, err)

	assert.Equal(t, "JWT", decoded.Header.Type)
	assert.Equal(t, "HS256", decoded.Header.Claims["alg"])
	assert.Equal(t, "joe", decoded.Body.Issuer)
	require.NotNil(t, decoded.Body.ExpirationTime)
	assert.Equal(t, int64(1300819380), *decoded.Body.ExpirationTime)
	assert.Equal(t, true, decoded.Body.Claims["http://example.com/is_root"])

	// One second later the same token is expired.
	v, err = New(
		WithClock(fixedClock(1300819380)),
		WithNotBeforeRequired(false),
		WithAudienceValidation(false),
	)
	require.NoError(t, err)
	_, err = v.ValidateToken(context.Background(), rfc7519ExampleToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidator_CustomClaims(t *testing.T) {
	raw := token("{}", `{"aud":"my-api","exp":1700000000,"nbf":1600000000,"scope":"read:messages"}`)

	t.Run("it deserializes and validates custom claims", func(t *testing.T) {
		v, err := New(
			WithAudience("my-api"),
			WithClock(fixedClock(1650000000)),
			WithCustomClaims(func() CustomClaims { return &testClaims{} }),
		)
		require.NoError(t, err)

		decoded, err := v.ValidateToken(context.Background(), raw)
		require.NoError(t, err)
		require.NotNil(t, decoded.CustomClaims)
		assert.Equal(t, "read:messages", decoded.CustomClaims.(*testClaims).Scope)
	})

	t.Run("it surfaces custom claim validation failures", func(t *testing.T) {
		v, err := New(
			WithAudience("my-api"),
			WithClock(fixedClock(1650000000)),
			WithCustomClaims(func() CustomClaims {
				return &testClaims{ReturnError: errors.New("scope rejected")}
			}),
		)
		require.NoError(t, err)

		_, err = v.ValidateToken(context.Background(), raw)
		assert.ErrorContains(t, err, "scope rejected")
	})

	t.Run("it tolerates a custom claims func returning nil", func(t *testing.T) {
		v, err := New(
			WithAudience("my-api"),
			WithClock(fixedClock(1650000000)),
			WithCustomClaims(func() CustomClaims { return nil }),
		)
		require.NoError(t, err)

		decoded, err := v.ValidateToken(context.Background(), raw)
		require.NoError(t, err)
		assert.Nil(t, decoded.CustomClaims)
	})
}

// jwsVerifier is a reference SignatureVerifier built on lestrrat-go/jwx,
// the shape callers are expected to supply for authenticated tokens.
type jwsVerifier struct {
	key []byte
}

func (v jwsVerifier) Verify(signingInput, signature []byte, alg string) error {
	compact := string(signingInput) + "." + EncodeSegment(signature)
	_, err := jws.Verify([]byte(compact), jws.WithKey(jwa.SignatureAlgorithm(alg), v.key))
	return err
}

func TestValidator_SignatureVerifier(t *testing.T) {
	key := []byte("your-256-bit-secret-is-just-enough")

	built, err := jwt.NewBuilder().
		Issuer("https://issuer.example.com/").
		Subject("1234567890").
		Audience([]string{"my-api"}).
		Expiration(time.Unix(1700000000, 0)).
		NotBefore(time.Unix(1600000000, 0)).
		IssuedAt(time.Unix(1600000000, 0)).
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, key))
	require.NoError(t, err)

	newValidator := func(verifier SignatureVerifier) *Validator {
		v, err := New(
			WithAudience("my-api"),
			WithClock(fixedClock(1650000000)),
			WithSignatureVerifier(verifier),
		)
		require.NoError(t, err)
		return v
	}

	t.Run("it accepts a correctly signed token", func(t *testing.T) {
		decoded, err := newValidator(jwsVerifier{key: key}).
			ValidateToken(context.Background(), string(signed))
		require.NoError(t, err)
		assert.Equal(t, "1234567890", decoded.Body.Subject)
		assert.Equal(t, "https://issuer.example.com/", decoded.Body.Issuer)
	})

	t.Run("it rejects a token signed with another key", func(t *testing.T) {
		_, err := newValidator(jwsVerifier{key: []byte("a-different-256-bit-secret-value")}).
			ValidateToken(context.Background(), string(signed))
		assert.ErrorContains(t, err, "signature verification failed")
	})

	t.Run("it rejects a tampered body before any claim check", func(t *testing.T) {
		tampered := token("{}", `{"aud":"my-api","exp":1700000000,"nbf":1600000000,"sub":"evil"}`)
		_, err := newValidator(jwsVerifier{key: key}).
			ValidateToken(context.Background(), tampered)
		assert.ErrorContains(t, err, "signature verification failed")
	})
}

func TestValidator_ClockSnapshotTakenOnce(t *testing.T) {
	calls := 0
	v, err := New(
		WithAudience("my-api"),
		WithClock(func() time.Time {
			calls++
			return time.Unix(1650000000, 0)
		}),
	)
	require.NoError(t, err)

	_, err = v.ValidateToken(context.Background(),
		token("{}", `{"aud":"my-api","exp":1700000000,"nbf":1600000000}`))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestValidator_ConcurrentUse(t *testing.T) {
	v, err := New(
		WithAudience("my-api"),
		WithClock(fixedClock(1650000000)),
	)
	require.NoError(t, err)

	raw := token("{}", `{"aud":"my-api","exp":1700000000,"nbf":1600000000}`)

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			_, err := v.ValidateToken(context.Background(), raw)
			done <- err
		}()
	}
	for i := 0; i < 16; i++ {
		assert.NoError(t, <-done)
	}
}

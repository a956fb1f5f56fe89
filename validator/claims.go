package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// Registered claim names as specified in RFC 7519 section 4.1 and the
// JOSE header parameters from RFC 7515 section 4.1.
const (
	ClaimIssuer         = "iss"
	ClaimSubject        = "sub"
	ClaimAudience       = "aud"
	ClaimExpirationTime = "exp"
	ClaimNotBefore      = "nbf"
	ClaimIssuedAt       = "iat"
	ClaimID             = "jti"
	ClaimType           = "typ"
	ClaimAlgorithm      = "alg"
)

// Header is the decoded first segment of a token. Only typ and alg are
// given typed fields; everything else is available through Claims.
//
// No trust decision is made on the header by this package. Algorithm
// checks belong to the SignatureVerifier supplied by the caller.
type Header struct {
	// Type is the "typ" parameter, usually "JWT". Empty when absent.
	Type string

	// Algorithm is the "alg" parameter naming the signing algorithm.
	Algorithm string

	// Claims holds every header member, registered ones included.
	Claims map[string]any
}

// Body is the decoded claim set from the second segment of a token.
//
// The seven registered claims are extracted into typed fields. Time
// claims are pointers so that an absent claim stays distinguishable
// from a zero value. Claims not understood by this package pass through
// untouched in Claims, per RFC 7519 section 4.
type Body struct {
	Issuer         string
	Subject        string
	Audience       []string
	ExpirationTime *int64
	NotBefore      *int64
	IssuedAt       *int64
	ID             string

	// Claims holds every body member, registered ones included.
	Claims map[string]any
}

// CustomClaims defines application-specific claims that should be
// deserialized from the token body and validated after the registered
// claims pass. Configure it with WithCustomClaims.
type CustomClaims interface {
	Validate(context.Context) error
}

// parseClaimSet decodes a JSON object into a claim map. The top level
// must be an object; anything else is an error.
//
// Duplicate member names follow RFC 7159 section 4 object semantics:
// members are read in document order and later occurrences overwrite
// earlier ones, so the lexically last value wins. Numbers are kept as
// json.Number so integer-valued time claims can be told apart from
// non-integral ones.
func parseClaimSet(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var claims map[string]any
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if claims == nil {
		return nil, fmt.Errorf("claim set is not a JSON object")
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after claim set")
	}
	return claims, nil
}

// newHeader builds the typed header view over a parsed claim map.
func newHeader(claims map[string]any) Header {
	return Header{
		Type:      stringClaim(claims, ClaimType),
		Algorithm: stringClaim(claims, ClaimAlgorithm),
		Claims:    claims,
	}
}

// newBody builds the typed body view over a parsed claim map. It fails
// when a registered time claim violates the NumericDate invariant.
func newBody(claims map[string]any) (Body, error) {
	body := Body{
		Issuer:   stringClaim(claims, ClaimIssuer),
		Subject:  stringClaim(claims, ClaimSubject),
		Audience: audienceClaim(claims),
		ID:       stringClaim(claims, ClaimID),
		Claims:   claims,
	}

	var err error
	if body.ExpirationTime, err = numericDateClaim(claims, ClaimExpirationTime); err != nil {
		return Body{}, err
	}
	if body.NotBefore, err = numericDateClaim(claims, ClaimNotBefore); err != nil {
		return Body{}, err
	}
	if body.IssuedAt, err = numericDateClaim(claims, ClaimIssuedAt); err != nil {
		return Body{}, err
	}
	return body, nil
}

// stringClaim returns the claim value if present and a string, and the
// empty string otherwise. The raw value stays reachable in Claims.
func stringClaim(claims map[string]any, name string) string {
	s, _ := claims[name].(string)
	return s
}

// audienceClaim reads the aud claim, which RFC 7519 allows to be either
// a single string or an array of strings. Values of any other type
// yield no audiences.
func audienceClaim(claims map[string]any) []string {
	switch aud := claims[ClaimAudience].(type) {
	case string:
		return []string{aud}
	case []any:
		var audiences []string
		for _, v := range aud {
			if s, ok := v.(string); ok {
				audiences = append(audiences, s)
			}
		}
		return audiences
	default:
		return nil
	}
}

// numericDateClaim extracts an RFC 7519 NumericDate claim: an integer
// count of seconds since the Unix epoch. A present value of any other
// shape (string, bool, non-integral number) is an error, distinct from
// the claim simply being absent.
func numericDateClaim(claims map[string]any, name string) (*int64, error) {
	raw, ok := claims[name]
	if !ok {
		return nil, nil
	}

	num, ok := raw.(json.Number)
	if !ok {
		return nil, fmt.Errorf("claim %q is not a number", name)
	}

	secs, err := num.Int64()
	if err != nil {
		// Accept integer-valued forms such as 1.3e9, reject 1.1.
		f, ferr := num.Float64()
		if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("claim %q is not an integer number of seconds", name)
		}
		secs = int64(f)
	}
	return &secs, nil
}

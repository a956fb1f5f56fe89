package validator

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Token is a decoded compact-serialization JWT. It is produced only by a
// fully successful decode; a failure never yields a partial Token.
type Token struct {
	Header Header
	Body   Body

	// Signature is the third segment exactly as it appeared in the raw
	// token. It is opaque to this package and only decoded when a
	// SignatureVerifier is configured on the Validator.
	Signature string

	signingInput string
	bodyBytes    []byte

	// CustomClaims is populated when the Validator was configured with
	// WithCustomClaims, nil otherwise.
	CustomClaims CustomClaims
}

// SigningInput returns the "header.body" portion of the raw token, the
// octets a signature or MAC covers per RFC 7515 section 5.1.
func (t *Token) SigningInput() []byte {
	return []byte(t.signingInput)
}

// DecodeSegment decodes one token segment from the unpadded URL-safe
// base64 alphabet of RFC 4648 section 5.
func DecodeSegment(segment string) ([]byte, error) {
	b, err := base64.RawURLEncoding.Strict().DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("invalid base64url segment: %w", err)
	}
	return b, nil
}

// EncodeSegment encodes bytes into the unpadded URL-safe base64 form
// used by compact serialization. Encoding never fails.
func EncodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode splits a raw compact serialization into its three segments and
// decodes the header and body claim sets. No claim policy is applied and
// the signature is not examined; use Validator.ValidateToken for the
// full pipeline.
//
// Every decode failure is reported as ErrInvalidTokenStructure.
func Decode(rawToken string) (*Token, error) {
	segments := strings.Split(rawToken, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidTokenStructure, len(segments))
	}

	headerBytes, err := DecodeSegment(segments[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidTokenStructure, err)
	}
	bodyBytes, err := DecodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrInvalidTokenStructure, err)
	}

	headerClaims, err := parseClaimSet(headerBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidTokenStructure, err)
	}
	bodyClaims, err := parseClaimSet(bodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrInvalidTokenStructure, err)
	}

	body, err := newBody(bodyClaims)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrInvalidTokenStructure, err)
	}

	return &Token{
		Header:       newHeader(headerClaims),
		Body:         body,
		Signature:    segments[2],
		signingInput: segments[0] + "." + segments[1],
		bodyBytes:    bodyBytes,
	}, nil
}

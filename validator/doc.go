/*
Package validator decodes compact-serialization JSON Web Tokens
(RFC 7519) and enforces configurable time- and audience-based claim
policies.

A Validator splits the raw string into its three dot-separated segments,
base64url-decodes the header and body, parses each as a JSON claim set,
and then runs the expiration, not-before, and audience checks in a fixed
order. The first failure short-circuits; a *Token is returned only when
everything passed.

	v, err := validator.New(
	    validator.WithAudience("my-api"),
	    validator.WithAllowedClockSkew(30*time.Second),
	)
	if err != nil {
	    log.Fatal(err)
	}

	token, err := v.ValidateToken(ctx, rawToken)
	if err != nil {
	    // errors.Is against validator.ErrTokenExpired,
	    // validator.ErrInvalidTokenStructure, etc.
	}
	fmt.Println(token.Body.Subject)

# Secure by default

All three claim validations are enabled and all three claims are
required unless explicitly relaxed, with zero clock skew. A token with
no exp claim is rejected out of the box.

# Signature verification

This package never verifies signatures or MACs. The returned Token is
structurally valid and policy-valid but NOT authenticated unless a
SignatureVerifier was supplied via WithSignatureVerifier. The verifier
receives the signing input, the decoded signature, and the header's alg
value; algorithm trust decisions belong to it alone.

# Unknown claims

Claims not understood by this package are carried through untouched in
Header.Claims and Body.Claims, as RFC 7519 instructs. Duplicate claim
names inside a segment resolve to the lexically last occurrence, per
RFC 7159 object semantics.
*/
package validator

/*
Package jwtvalidator provides HTTP middleware for validating bearer
JWTs on incoming requests, built around the claim-policy engine in the
validator subpackage.

	v, err := validator.New(
	    validator.WithAudience("my-api"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	middleware, err := jwtvalidator.New(
	    jwtvalidator.WithValidator(v),
	)
	if err != nil {
	    log.Fatal(err)
	}

	http.ListenAndServe(":8080", middleware.CheckJWT(myHandler))

Inside a handler the decoded token is read back from the request
context:

	token := jwtvalidator.MustGetClaims[*validator.Token](r.Context())
	fmt.Println(token.Body.Subject)

Adapters for gin, echo, and gRPC live under framework/.

Note that the validator package performs structural decoding and claim
policy only; tokens are not authenticated unless a SignatureVerifier is
configured on the validator. See the validator package documentation.
*/
package jwtvalidator

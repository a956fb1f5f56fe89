package jwtvalidator

import (
	"context"
	"errors"
)

// ErrClaimsNotFound is returned when claims cannot be retrieved from
// the context.
var ErrClaimsNotFound = errors.New("claims not found in context")

// contextKey is an unexported type for context keys to prevent
// collisions with other packages.
type contextKey int

const claimsKey contextKey = iota

// SetClaims stores claims in the context. It is used by the middleware
// and by the framework adapters after a token validates.
func SetClaims(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims retrieves claims from the context with type safety using
// generics. It returns an error if the claims are not found or the type
// assertion fails.
//
// Example:
//
//	token, err := jwtvalidator.GetClaims[*validator.Token](r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(token.Body.Subject)
func GetClaims[T any](ctx context.Context) (T, error) {
	var zero T

	val := ctx.Value(claimsKey)
	if val == nil {
		return zero, ErrClaimsNotFound
	}

	claims, ok := val.(T)
	if !ok {
		return zero, errors.New("claims type assertion failed")
	}

	return claims, nil
}

// MustGetClaims retrieves claims from the context or panics. Use only
// when claims are certain to exist, i.e. after the middleware has run.
func MustGetClaims[T any](ctx context.Context) T {
	claims, err := GetClaims[T](ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if claims exist in the context without retrieving
// them.
func HasClaims(ctx context.Context) bool {
	return ctx.Value(claimsKey) != nil
}

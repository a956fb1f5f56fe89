package jwtechohandler

import (
	"github.com/labstack/echo/v4"

	jwtvalidator "github.com/Liamdoult/go-jwt-validator"
)

// Option configures the echo middleware.
type Option func(*echoMiddlewareConfig)

// WithErrorHandler sets a custom error handler for validation failures.
func WithErrorHandler(h func(echo.Context, error) error) Option {
	return func(c *echoMiddlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextKey sets the echo context key claims are stored under.
func WithContextKey(key string) Option {
	return func(c *echoMiddlewareConfig) {
		if key != "" {
			c.contextKey = key
		}
	}
}

// WithTokenExtractor sets the function used to pull the token from the
// request.
func WithTokenExtractor(e jwtvalidator.TokenExtractor) Option {
	return func(c *echoMiddlewareConfig) {
		if e != nil {
			c.tokenExtractor = e
		}
	}
}

// WithCredentialsOptional lets requests without a token pass through
// without claims.
func WithCredentialsOptional(value bool) Option {
	return func(c *echoMiddlewareConfig) {
		c.credentialsOptional = value
	}
}

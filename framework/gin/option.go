package jwtginhandler

import (
	"github.com/gin-gonic/gin"

	jwtvalidator "github.com/Liamdoult/go-jwt-validator"
)

// Option configures the gin middleware.
type Option func(*ginMiddlewareConfig)

// WithErrorHandler sets a custom error handler for validation failures.
func WithErrorHandler(h func(*gin.Context, error)) Option {
	return func(c *ginMiddlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextKey sets the gin context key claims are stored under.
func WithContextKey(key string) Option {
	return func(c *ginMiddlewareConfig) {
		if key != "" {
			c.contextKey = key
		}
	}
}

// WithTokenExtractor sets the function used to pull the token from the
// request.
func WithTokenExtractor(e jwtvalidator.TokenExtractor) Option {
	return func(c *ginMiddlewareConfig) {
		if e != nil {
			c.tokenExtractor = e
		}
	}
}

// WithCredentialsOptional lets requests without a token pass through
// without claims.
func WithCredentialsOptional(value bool) Option {
	return func(c *ginMiddlewareConfig) {
		c.credentialsOptional = value
	}
}

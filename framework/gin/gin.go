// Package jwtginhandler adapts the JWT middleware for gin.
package jwtginhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtvalidator "github.com/Liamdoult/go-jwt-validator"
	"github.com/Liamdoult/go-jwt-validator/validator"
)

// DefaultClaimsKey is the gin context key claims are stored under when
// no WithContextKey option is given.
const DefaultClaimsKey = "jwt"

var (
	ErrMissingClaims = errors.New("no JWT claims found in context")
	ErrInvalidClaims = errors.New("invalid JWT claims type")
)

type ginMiddlewareConfig struct {
	errorHandler        func(*gin.Context, error)
	contextKey          string
	tokenExtractor      jwtvalidator.TokenExtractor
	credentialsOptional bool
}

// NewGinMiddleware creates a gin middleware for JWT validation. The
// validateToken function is typically bound to a *validator.Validator;
// it must be safe for concurrent use.
func NewGinMiddleware(validateToken jwtvalidator.ValidateToken, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		errorHandler:   defaultGinErrorHandler,
		contextKey:     DefaultClaimsKey,
		tokenExtractor: jwtvalidator.AuthHeaderTokenExtractor,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		token, err := config.tokenExtractor(c.Request)
		if err != nil {
			config.errorHandler(c, err)
			return
		}

		if token == "" {
			if config.credentialsOptional {
				c.Next()
				return
			}
			config.errorHandler(c, jwtvalidator.ErrJWTMissing)
			return
		}

		claims, err := validateToken(c.Request.Context(), token)
		if err != nil {
			config.errorHandler(c, err)
			return
		}

		c.Set(config.contextKey, claims)
		c.Request = c.Request.Clone(jwtvalidator.SetClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	if errors.Is(err, jwtvalidator.ErrJWTMissing) {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"message": err.Error()})
}

// GetClaims extracts the decoded token from the gin context under the
// default claims key.
func GetClaims(c *gin.Context) (*validator.Token, error) {
	return GetClaimsWithKey(c, DefaultClaimsKey)
}

// GetClaimsWithKey extracts the decoded token stored under a custom
// context key.
func GetClaimsWithKey(c *gin.Context, contextKey string) (*validator.Token, error) {
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	token, ok := claims.(*validator.Token)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return token, nil
}

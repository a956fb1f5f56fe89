// Package jwtechohandler adapts the JWT middleware for echo.
package jwtechohandler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtvalidator "github.com/Liamdoult/go-jwt-validator"
	"github.com/Liamdoult/go-jwt-validator/validator"
)

// DefaultClaimsKey is the echo context key claims are stored under when
// no WithContextKey option is given.
const DefaultClaimsKey = "jwt"

var (
	ErrMissingClaims = errors.New("no JWT claims found in context")
	ErrInvalidClaims = errors.New("invalid JWT claims type")
)

type echoMiddlewareConfig struct {
	errorHandler        func(echo.Context, error) error
	contextKey          string
	tokenExtractor      jwtvalidator.TokenExtractor
	credentialsOptional bool
}

// NewEchoMiddleware creates an echo middleware for JWT validation. The
// validateToken function is typically bound to a *validator.Validator;
// it must be safe for concurrent use.
func NewEchoMiddleware(validateToken jwtvalidator.ValidateToken, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler:   defaultEchoErrorHandler,
		contextKey:     DefaultClaimsKey,
		tokenExtractor: jwtvalidator.AuthHeaderTokenExtractor,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := config.tokenExtractor(c.Request())
			if err != nil {
				return config.errorHandler(c, err)
			}

			if token == "" {
				if config.credentialsOptional {
					return next(c)
				}
				return config.errorHandler(c, jwtvalidator.ErrJWTMissing)
			}

			claims, err := validateToken(c.Request().Context(), token)
			if err != nil {
				return config.errorHandler(c, err)
			}

			c.Set(config.contextKey, claims)
			c.SetRequest(c.Request().Clone(jwtvalidator.SetClaims(c.Request().Context(), claims)))
			return next(c)
		}
	}
}

func defaultEchoErrorHandler(c echo.Context, err error) error {
	status := http.StatusUnauthorized
	if errors.Is(err, jwtvalidator.ErrJWTMissing) {
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"message": err.Error()})
}

// GetClaims extracts the decoded token from the echo context under the
// default claims key.
func GetClaims(c echo.Context) (*validator.Token, error) {
	return GetClaimsWithKey(c, DefaultClaimsKey)
}

// GetClaimsWithKey extracts the decoded token stored under a custom
// context key.
func GetClaimsWithKey(c echo.Context, contextKey string) (*validator.Token, error) {
	claims := c.Get(contextKey)
	if claims == nil {
		return nil, ErrMissingClaims
	}

	token, ok := claims.(*validator.Token)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return token, nil
}

package jwtechohandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtvalidator "github.com/Liamdoult/go-jwt-validator"
	"github.com/Liamdoult/go-jwt-validator/validator"
)

func acceptingValidateToken(token *validator.Token) jwtvalidator.ValidateToken {
	return func(context.Context, string) (any, error) {
		return token, nil
	}
}

func rejectingValidateToken(err error) jwtvalidator.ValidateToken {
	return func(context.Context, string) (any, error) {
		return nil, err
	}
}

func performRequest(t *testing.T, middleware echo.MiddlewareFunc, handler echo.HandlerFunc, header string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Use(middleware)
	e.GET("/", handler)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		request.Header.Set("Authorization", header)
	}
	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, request)
	return recorder
}

func TestNewEchoMiddleware(t *testing.T) {
	t.Run("it stores claims in both echo and request contexts", func(t *testing.T) {
		wantToken := &validator.Token{Body: validator.Body{Subject: "user-1"}}

		handler := func(c echo.Context) error {
			fromEcho, err := GetClaims(c)
			require.NoError(t, err)
			assert.Same(t, wantToken, fromEcho)

			fromRequest, err := jwtvalidator.GetClaims[*validator.Token](c.Request().Context())
			require.NoError(t, err)
			assert.Same(t, wantToken, fromRequest)

			return c.NoContent(http.StatusOK)
		}

		recorder := performRequest(t,
			NewEchoMiddleware(acceptingValidateToken(wantToken)),
			handler, "Bearer some.jwt.token")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("it responds 400 when the token is missing", func(t *testing.T) {
		handler := func(c echo.Context) error {
			t.Error("handler should not have been invoked")
			return nil
		}

		recorder := performRequest(t,
			NewEchoMiddleware(acceptingValidateToken(&validator.Token{})),
			handler, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("it responds 401 when validation fails", func(t *testing.T) {
		handler := func(c echo.Context) error {
			t.Error("handler should not have been invoked")
			return nil
		}

		recorder := performRequest(t,
			NewEchoMiddleware(rejectingValidateToken(errors.New("bad token"))),
			handler, "Bearer some.jwt.token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.JSONEq(t, `{"message":"bad token"}`, recorder.Body.String())
	})

	t.Run("it continues without claims when credentials are optional", func(t *testing.T) {
		handler := func(c echo.Context) error {
			_, err := GetClaims(c)
			assert.ErrorIs(t, err, ErrMissingClaims)
			return c.NoContent(http.StatusOK)
		}

		recorder := performRequest(t,
			NewEchoMiddleware(
				acceptingValidateToken(&validator.Token{}),
				WithCredentialsOptional(true),
			),
			handler, "")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("it honors a custom context key", func(t *testing.T) {
		wantToken := &validator.Token{}

		handler := func(c echo.Context) error {
			got, err := GetClaimsWithKey(c, "claims")
			require.NoError(t, err)
			assert.Same(t, wantToken, got)
			return c.NoContent(http.StatusOK)
		}

		recorder := performRequest(t,
			NewEchoMiddleware(
				acceptingValidateToken(wantToken),
				WithContextKey("claims"),
			),
			handler, "Bearer some.jwt.token")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("it uses a custom error handler", func(t *testing.T) {
		handler := func(c echo.Context) error { return nil }

		recorder := performRequest(t,
			NewEchoMiddleware(
				rejectingValidateToken(errors.New("bad token")),
				WithErrorHandler(func(c echo.Context, err error) error {
					return c.NoContent(http.StatusTeapot)
				}),
			),
			handler, "Bearer some.jwt.token")
		assert.Equal(t, http.StatusTeapot, recorder.Code)
	})
}

func TestGetClaims(t *testing.T) {
	newContext := func() echo.Context {
		e := echo.New()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(request, httptest.NewRecorder())
	}

	t.Run("it errors when claims are absent", func(t *testing.T) {
		_, err := GetClaims(newContext())
		assert.ErrorIs(t, err, ErrMissingClaims)
	})

	t.Run("it errors when the stored value is not a token", func(t *testing.T) {
		c := newContext()
		c.Set(DefaultClaimsKey, "not a token")

		_, err := GetClaims(c)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

package jwtvalidator

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ValidateToken takes in a string JWT and makes sure it is valid and
// returns the decoded token. If it is not valid it returns nil and an
// error describing why validation failed.
type ValidateToken func(context.Context, string) (any, error)

// ExclusionURLHandler is a function that takes in an http.Request and
// returns true if the request should be excluded from JWT validation.
type ExclusionURLHandler func(r *http.Request) bool

// JWTMiddleware validates bearer tokens on incoming HTTP requests and
// stores the decoded claims in the request context. A constructed
// middleware is immutable and safe to share across handlers.
type JWTMiddleware struct {
	validateToken       ValidateToken
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	exclusionURLHandler ExclusionURLHandler
	credentialsOptional bool
	validateOnOptions   bool
	logger              Logger
	metrics             Metrics
	tracer              Tracer
}

// New constructs a new JWTMiddleware instance with the supplied options.
// A token validation function is required; see WithValidator and
// WithValidateToken.
//
// Example:
//
//	v, err := validator.New(validator.WithAudience("my-api"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	middleware, err := jwtvalidator.New(jwtvalidator.WithValidator(v))
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*JWTMiddleware, error) {
	m := &JWTMiddleware{
		// Secure defaults: credentials required, OPTIONS validated.
		credentialsOptional: false,
		validateOnOptions:   true,
		errorHandler:        DefaultErrorHandler,
		tokenExtractor:      AuthHeaderTokenExtractor,
		metrics:             &NoopMetrics{},
		tracer:              &NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if m.validateToken == nil {
		return nil, ErrValidateTokenNil
	}

	return m, nil
}

// CheckJWT returns a handler that validates the request's JWT before
// invoking next. On success the decoded claims are available through
// GetClaims on the request context.
func (m *JWTMiddleware) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
			m.logDebug("skipping JWT validation for excluded URL",
				"method", r.Method,
				"path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		if !m.validateOnOptions && r.Method == http.MethodOptions {
			m.logDebug("skipping JWT validation for OPTIONS request")
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := m.tracer.StartSpan(r.Context(), "jwtvalidator.CheckJWT")
		defer span.Finish()

		token, err := m.tokenExtractor(r)
		if err != nil {
			// This is not ErrJWTMissing because an error here means that
			// the extractor found a token but it was malformed.
			m.logError("failed to extract token from request",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path)
			m.recordOutcome("extraction_error")
			span.SetTag("auth_status", "extraction_error")
			m.errorHandler(w, r, fmt.Errorf("error extracting token: %w", err))
			return
		}

		if token == "" {
			if m.credentialsOptional {
				m.logDebug("no credentials provided, continuing without claims (credentials optional)")
				span.SetTag("auth_status", "optional_no_token")
				next.ServeHTTP(w, r)
				return
			}

			m.logWarn("no token provided and credentials are required",
				"method", r.Method,
				"path", r.URL.Path)
			m.recordOutcome("missing_token")
			span.SetTag("auth_status", "missing_token")
			m.errorHandler(w, r, ErrJWTMissing)
			return
		}

		start := time.Now()
		validToken, err := m.validateToken(ctx, token)
		duration := time.Since(start)

		if err != nil {
			m.logWarn("JWT validation failed",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
				"duration", duration)
			m.recordOutcome("invalid_token")
			span.SetTag("auth_status", "invalid_token")
			m.errorHandler(w, r, &invalidError{details: err})
			return
		}

		m.logDebug("JWT validation successful, setting claims in context",
			"duration", duration)
		m.recordOutcome("success")
		m.metrics.ObserveHistogram("jwt_validation_duration_seconds",
			duration.Seconds(), map[string]string{"outcome": "success"})
		span.SetTag("auth_status", "success")

		r = r.Clone(SetClaims(ctx, validToken))
		next.ServeHTTP(w, r)
	})
}

func (m *JWTMiddleware) recordOutcome(outcome string) {
	m.metrics.IncCounter("jwt_validation_total", map[string]string{"outcome": outcome})
}

func (m *JWTMiddleware) logDebug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *JWTMiddleware) logWarn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}

func (m *JWTMiddleware) logError(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Error(msg, args...)
	}
}

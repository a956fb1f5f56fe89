package jwtvalidator

import (
	"context"
	"errors"
	"net/http"

	"github.com/Liamdoult/go-jwt-validator/validator"
)

// Option configures the JWTMiddleware.
// Options return errors to enable validation during construction.
type Option func(*JWTMiddleware) error

// Sentinel errors for configuration validation.
var (
	ErrValidateTokenNil   = errors.New("a token validation function is required (use WithValidator or WithValidateToken)")
	ErrValidatorNil       = errors.New("validator cannot be nil")
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil  = errors.New("tokenExtractor cannot be nil")
	ErrExclusionURLsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
)

// WithValidator wires a *validator.Validator as the token validation
// function. This is the usual way to configure the middleware.
func WithValidator(v *validator.Validator) Option {
	return func(m *JWTMiddleware) error {
		if v == nil {
			return ErrValidatorNil
		}
		m.validateToken = func(ctx context.Context, token string) (any, error) {
			return v.ValidateToken(ctx, token)
		}
		return nil
	}
}

// WithValidateToken sets a custom token validation function. Use this
// when wrapping the validator with additional checks.
func WithValidateToken(vt ValidateToken) Option {
	return func(m *JWTMiddleware) error {
		if vt == nil {
			return ErrValidateTokenNil
		}
		m.validateToken = vt
		return nil
	}
}

// WithCredentialsOptional sets whether credentials are optional.
// If set to true, a request without a token passes through without
// claims in its context.
//
// Default: false (credentials required).
func WithCredentialsOptional(value bool) Option {
	return func(m *JWTMiddleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests have their JWT
// validated.
//
// Default: true.
func WithValidateOnOptions(value bool) Option {
	return func(m *JWTMiddleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when errors occur during JWT
// validation. See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *JWTMiddleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the JWT from the
// request.
//
// Default: AuthHeaderTokenExtractor.
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *JWTMiddleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithExclusionURLs configures URL patterns to exclude from JWT
// validation. Entries match either the full request URL or just its
// path.
func WithExclusionURLs(exclusions []string) Option {
	return func(m *JWTMiddleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionURLsEmpty
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional logger used throughout the validation
// flow. The interface is compatible with log/slog.Logger; adapters for
// logrus, zerolog, and zap live in logger.go.
func WithLogger(logger Logger) Option {
	return func(m *JWTMiddleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for validation outcome counters and
// latency histograms.
//
// Default: NoopMetrics.
func WithMetrics(metrics Metrics) Option {
	return func(m *JWTMiddleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used to record a span per validation.
//
// Default: NoopTracer.
func WithTracer(tracer Tracer) Option {
	return func(m *JWTMiddleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

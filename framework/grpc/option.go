package grpcjwt

import (
	jwtvalidator "github.com/Liamdoult/go-jwt-validator"
)

// Option configures the JWTInterceptor.
type Option func(*JWTInterceptor)

// WithTokenExtractor sets the function used to pull the token from
// incoming metadata.
func WithTokenExtractor(e GRPCTokenExtractor) Option {
	return func(i *JWTInterceptor) {
		if e != nil {
			i.tokenExtractor = e
		}
	}
}

// WithCredentialsOptional lets calls without a token pass through
// without claims.
func WithCredentialsOptional(value bool) Option {
	return func(i *JWTInterceptor) {
		i.credentialsOptional = value
	}
}

// WithExclusionChecker exempts matching methods from JWT validation.
func WithExclusionChecker(checker ExclusionChecker) Option {
	return func(i *JWTInterceptor) {
		i.exclusionChecker = checker
	}
}

// WithExcludedMethods exempts the listed full method names from JWT
// validation.
func WithExcludedMethods(methods []string) Option {
	excluded := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		excluded[m] = struct{}{}
	}
	return WithExclusionChecker(func(fullMethod string) bool {
		_, ok := excluded[fullMethod]
		return ok
	})
}

// WithLogger sets an optional logger for the interceptor.
func WithLogger(logger jwtvalidator.Logger) Option {
	return func(i *JWTInterceptor) {
		i.logger = logger
	}
}

// WithMetrics sets the metrics sink for per-method outcome counters.
func WithMetrics(metrics jwtvalidator.Metrics) Option {
	return func(i *JWTInterceptor) {
		if metrics != nil {
			i.metrics = metrics
		}
	}
}

// WithTracer sets the tracer used to record a span per authentication.
func WithTracer(tracer jwtvalidator.Tracer) Option {
	return func(i *JWTInterceptor) {
		if tracer != nil {
			i.tracer = tracer
		}
	}
}

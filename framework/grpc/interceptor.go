// Package grpcjwt provides configurable JWT validation interceptors for
// gRPC servers.
package grpcjwt

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jwtvalidator "github.com/Liamdoult/go-jwt-validator"
	"github.com/Liamdoult/go-jwt-validator/validator"
)

var (
	ErrMissingClaims = errors.New("no JWT claims found in context")
	ErrInvalidClaims = errors.New("invalid JWT claims type")
)

// ExclusionChecker reports whether a full method name is exempt from
// JWT validation.
type ExclusionChecker func(fullMethod string) bool

// JWTInterceptor provides JWT validation for unary and streaming gRPC
// handlers.
type JWTInterceptor struct {
	validateToken       jwtvalidator.ValidateToken
	tokenExtractor      GRPCTokenExtractor
	credentialsOptional bool
	exclusionChecker    ExclusionChecker
	logger              jwtvalidator.Logger
	metrics             jwtvalidator.Metrics
	tracer              jwtvalidator.Tracer
}

// New creates a JWTInterceptor with the given options.
func New(validateToken jwtvalidator.ValidateToken, opts ...Option) *JWTInterceptor {
	i := &JWTInterceptor{
		validateToken:  validateToken,
		tokenExtractor: MetadataTokenExtractor,
		metrics:        &jwtvalidator.NoopMetrics{},
		tracer:         &jwtvalidator.NoopTracer{},
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// authenticate handles token extraction and validation, returning a
// context carrying the validated claims.
func (i *JWTInterceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	spanCtx, span := i.tracer.StartSpan(ctx, "grpcjwt.authenticate")
	defer span.Finish()

	if i.exclusionChecker != nil && i.exclusionChecker(method) {
		i.logDebug("method excluded from JWT validation", "method", method)
		span.SetTag("auth_status", "excluded")
		return spanCtx, nil
	}

	token, err := i.tokenExtractor(ctx)
	if err != nil {
		i.logError("error extracting token", "method", method, "error", err)
		i.recordOutcome(method, "extraction_error")
		span.SetTag("auth_status", "extraction_error")
		return nil, status.Errorf(codes.Unauthenticated, "error extracting token: %v", err)
	}

	if token == "" {
		if i.credentialsOptional {
			i.logDebug("no token provided but credentials optional", "method", method)
			span.SetTag("auth_status", "optional_no_token")
			return spanCtx, nil
		}
		i.logError("JWT token is missing", "method", method)
		i.recordOutcome(method, "missing_token")
		span.SetTag("auth_status", "missing_token")
		return nil, status.Error(codes.Unauthenticated, "JWT token is missing")
	}

	start := time.Now()
	validToken, err := i.validateToken(spanCtx, token)
	if err != nil {
		i.logError("invalid JWT token", "method", method, "error", err)
		i.recordOutcome(method, "invalid_token")
		span.SetTag("auth_status", "invalid_token")
		return nil, status.Errorf(codes.Unauthenticated, "invalid JWT token: %v", err)
	}

	i.logDebug("JWT token validated", "method", method)
	i.recordOutcome(method, "success")
	i.metrics.ObserveHistogram("grpc_jwt_validation_duration_seconds",
		time.Since(start).Seconds(), map[string]string{"method": method})
	span.SetTag("auth_status", "success")

	return jwtvalidator.SetClaims(spanCtx, validToken), nil
}

// UnaryServerInterceptor returns a gRPC unary server interceptor for
// JWT validation.
func (i *JWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		authCtx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(authCtx, req)
	}
}

// StreamServerInterceptor returns a gRPC stream server interceptor for
// JWT validation.
func (i *JWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		authCtx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authCtx})
	}
}

// wrappedServerStream wraps a grpc.ServerStream to override the
// context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// GetClaimsFromContext retrieves the decoded token from the context.
// Returns nil when no claims are present.
func GetClaimsFromContext(ctx context.Context) *validator.Token {
	token, err := jwtvalidator.GetClaims[*validator.Token](ctx)
	if err != nil {
		return nil
	}
	return token
}

// RequireClaimsFromContext retrieves the decoded token from the
// context, returning ErrMissingClaims when absent or ErrInvalidClaims
// when of an unexpected type.
func RequireClaimsFromContext(ctx context.Context) (*validator.Token, error) {
	if !jwtvalidator.HasClaims(ctx) {
		return nil, ErrMissingClaims
	}
	token, err := jwtvalidator.GetClaims[*validator.Token](ctx)
	if err != nil {
		return nil, ErrInvalidClaims
	}
	return token, nil
}

func (i *JWTInterceptor) recordOutcome(method, outcome string) {
	i.metrics.IncCounter("grpc_jwt_validation_total",
		map[string]string{"method": method, "outcome": outcome})
}

func (i *JWTInterceptor) logDebug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}

func (i *JWTInterceptor) logError(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Error(msg, args...)
	}
}

package grpcjwt

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// GRPCTokenExtractor defines a function that extracts a token from
// incoming gRPC metadata.
type GRPCTokenExtractor func(ctx context.Context) (string, error)

// MetadataTokenExtractor extracts the JWT from the "authorization"
// metadata field, expecting the "Bearer {token}" form.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil // No metadata, then no JWT, so no error.
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return "", nil
	}

	parts := strings.Fields(values[0])
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("authorization metadata format must be Bearer {token}")
	}

	return parts[1], nil
}

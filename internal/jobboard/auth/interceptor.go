// Package auth verifies session tokens issued by the identity provider,
// attaches the caller's identity to gRPC and HTTP requests, and implements
// the role-gated navigation rules.
package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Interceptor holds the token verifier and a map of protected methods.
type Interceptor struct {
	verifier         *Verifier
	resolver         RoleResolver
	protectedMethods map[string]bool
}

// NewAuthInterceptor creates a new Interceptor protecting the saved item
// service methods. resolver may be nil when tokens always carry the role.
func NewAuthInterceptor(verifier *Verifier, resolver RoleResolver) *Interceptor {
	protected := map[string]bool{
		"/jobboard.v1.SavedItemService/SaveItem":   true,
		"/jobboard.v1.SavedItemService/UnsaveItem": true,
		"/jobboard.v1.SavedItemService/ToggleItem": true,
	}

	return &Interceptor{
		verifier:         verifier,
		resolver:         resolver,
		protectedMethods: protected,
	}
}

// Unary returns a gRPC unary interceptor for token validation on protected methods.
func (i *Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.protectedMethods[info.FullMethod] {
			md, ok := metadata.FromIncomingContext(ctx)
			if !ok {
				return nil, status.Error(codes.Unauthenticated, "metadata missing")
			}

			tokenString, err := extractTokenFromMetadata(md)
			if err != nil {
				return nil, err
			}

			identity, err := i.verifier.Verify(tokenString)
			if err != nil {
				return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
			}
			if err := resolveRole(ctx, identity, i.resolver); err != nil {
				return nil, status.Error(codes.Internal, "failed to resolve role")
			}

			ctx = WithIdentity(ctx, identity)
		}

		return handler(ctx, req)
	}
}

// extractTokenFromMetadata retrieves a Bearer token from gRPC metadata.
func extractTokenFromMetadata(md metadata.MD) (string, error) {
	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization header missing")
	}

	headerValue := authHeaders[0]
	if !strings.HasPrefix(headerValue, "Bearer ") {
		return "", status.Error(codes.Unauthenticated, "invalid authorization format: missing Bearer prefix")
	}

	tokenString := strings.TrimPrefix(headerValue, "Bearer ")
	if tokenString == "" {
		return "", status.Error(codes.Unauthenticated, "invalid authorization format: empty token")
	}

	return tokenString, nil
}

package grpc

import (
	"context"

	"github.com/vibast-solutions/ms-go-hydration/app/middleware"
	"github.com/vibast-solutions/ms-go-hydration/app/service"

	"github.com/sirupsen/logrus"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type accountIDKey struct{}

type accessTokenValidator interface {
	ValidateAccessToken(tokenString string) (*service.Claims, error)
}

// AuthUnaryInterceptor requires a bearer access token in the "authorization"
// metadata for every method except the public ones.
func AuthUnaryInterceptor(validator accessTokenValidator, publicMethods ...string) gogrpc.UnaryServerInterceptor {
	public := make(map[string]bool, len(publicMethods))
	for _, method := range publicMethods {
		public[method] = true
	}

	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		if public[info.FullMethod] {
			return handler(ctx, req)
		}

		tokenString, ok := middleware.BearerToken(incomingAuthorization(ctx))
		if !ok {
			logrus.WithField("method", info.FullMethod).Debug("Missing or malformed authorization metadata (grpc)")
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}

		claims, err := validator.ValidateAccessToken(tokenString)
		if err != nil {
			logrus.WithField("method", info.FullMethod).Debug("Invalid or expired access token (grpc)")
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}

		return handler(context.WithValue(ctx, accountIDKey{}, claims.UserID), req)
	}
}

func AccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(accountIDKey{}).(string)
	return accountID, ok && accountID != ""
}

func incomingAuthorization(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

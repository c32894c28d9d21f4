package grpc

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/vibast-solutions/ms-go-hydration/app/service"

	"github.com/sirupsen/logrus"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type QuickAccessGRPCServer struct {
	quickAccessService service.QuickAccessService
	waterIntakeService service.WaterIntakeService
}

func NewQuickAccessServer(quickAccessService service.QuickAccessService, waterIntakeService service.WaterIntakeService) *QuickAccessGRPCServer {
	return &QuickAccessGRPCServer{
		quickAccessService: quickAccessService,
		waterIntakeService: waterIntakeService,
	}
}

// NewServer builds a gRPC server with the QuickAccess service registered
// behind the auth interceptor.
func NewServer(srv *QuickAccessGRPCServer, validator accessTokenValidator) *gogrpc.Server {
	server := gogrpc.NewServer(
		gogrpc.UnaryInterceptor(AuthUnaryInterceptor(validator, RedeemMethod)),
	)
	RegisterQuickAccessServer(server, srv)
	return server
}

func (s *QuickAccessGRPCServer) Redeem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token, amountMl, err := redeemArgs(req)
	if err != nil {
		logrus.Debug("Quick access request validation failed (grpc)")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	intake, err := s.quickAccessService.Redeem(ctx, token, amountMl)
	if err != nil {
		var cooldownErr *service.CooldownError
		switch {
		case errors.Is(err, service.ErrInvalidQuickAccessToken):
			logrus.Warn("Quick access failed: invalid token (grpc)")
			return nil, status.Error(codes.Unauthenticated, "invalid quick access token")
		case errors.As(err, &cooldownErr):
			retryAfter := int(math.Ceil(cooldownErr.RetryAfter.Seconds()))
			_ = gogrpc.SetHeader(ctx, metadata.Pairs("retry-after", strconv.Itoa(retryAfter)))
			logrus.WithField("retry_after", retryAfter).Info("Quick access rejected: cooldown active (grpc)")
			return nil, status.Error(codes.ResourceExhausted, err.Error())
		case errors.Is(err, service.ErrInvalidAmount):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		logrus.WithError(err).Error("Quick access failed (grpc)")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	logrus.WithFields(logrus.Fields{
		"user_id": intake.AccountID,
		"amount":  intake.AmountMl,
	}).Info("Water intake recorded via quick access (grpc)")

	return response(IntakeField, intake)
}

func (s *QuickAccessGRPCServer) Issue(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	accountID, ok := AccountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	account, err := s.quickAccessService.IssueToken(ctx, accountID)
	if err != nil {
		return nil, accountError(err, accountID, "Issue quick access failed (grpc)")
	}

	logrus.WithField("user_id", accountID).Info("Quick access token issued (grpc)")
	return response(AccountField, account)
}

func (s *QuickAccessGRPCServer) Revoke(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	accountID, ok := AccountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	account, err := s.quickAccessService.RevokeToken(ctx, accountID)
	if err != nil {
		return nil, accountError(err, accountID, "Revoke quick access failed (grpc)")
	}

	logrus.WithField("user_id", accountID).Info("Quick access token revoked (grpc)")
	return response(AccountField, account)
}

func (s *QuickAccessGRPCServer) Today(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	accountID, ok := AccountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	stats, err := s.waterIntakeService.Today(ctx, accountID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", accountID).Error("Today stats failed (grpc)")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return response(StatsField, stats)
}

func accountError(err error, accountID, message string) error {
	if errors.Is(err, service.ErrUserNotFound) {
		logrus.WithField("user_id", accountID).Warn(message + ": user not found")
		return status.Error(codes.NotFound, "user not found")
	}
	logrus.WithError(err).WithField("user_id", accountID).Error(message)
	return status.Error(codes.Internal, "internal server error")
}

func response(field string, v any) (*structpb.Struct, error) {
	res, err := newResponse(field, v)
	if err != nil {
		logrus.WithError(err).WithField("field", field).Error("Failed to encode response (grpc)")
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return res, nil
}

package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/dto"
	"github.com/vibast-solutions/ms-go-hydration/app/entity"
	hydrationgrpc "github.com/vibast-solutions/ms-go-hydration/app/grpc"
	"github.com/vibast-solutions/ms-go-hydration/app/repository"
	"github.com/vibast-solutions/ms-go-hydration/app/service"
	"github.com/vibast-solutions/ms-go-hydration/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	accountSelect            = `SELECT id, email, canonical_email, password_hash, name, daily_goal, quick_access_token, last_quick_access, created_at, updated_at FROM users`
	findAccountByIDQuery     = `(?s)` + accountSelect + ` WHERE id = \?`
	findAccountByTokenQuery  = `(?s)` + accountSelect + ` WHERE quick_access_token = \?`
	setQuickAccessTokenQuery = `(?s)UPDATE users SET quick_access_token = \?, last_quick_access = \?, updated_at = \? WHERE id = \?`
	claimQuickAccessQuery    = `(?s)UPDATE users SET last_quick_access = \?\s+WHERE id = \? AND quick_access_token = \?`
	insertWaterIntakeQuery   = `(?s)INSERT INTO water_intakes \(id, user_id, amount, created_at\) VALUES \(\?, \?, \?, \?\)`
	listRangeQuery           = `(?s)SELECT id, user_id, amount, created_at FROM water_intakes WHERE user_id = \? AND created_at >= \? AND created_at < \?`

	testAccountID        = "7f0c3c1e-2a4b-4c7d-9e1f-0a1b2c3d4e5f"
	testQuickAccessToken = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testSecret           = "test-secret"
)

var accountColumns = []string{
	"id",
	"email",
	"canonical_email",
	"password_hash",
	"name",
	"daily_goal",
	"quick_access_token",
	"last_quick_access",
	"created_at",
	"updated_at",
}

type fixture struct {
	server *hydrationgrpc.QuickAccessGRPCServer
	auth   service.AuthService
	mock   sqlmock.Sqlmock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		JWT:       config.JWTConfig{Secret: testSecret, AccessTokenTTL: time.Hour},
		Hydration: config.HydrationConfig{Location: time.UTC},
	}
	accountRepo := repository.NewAccountRepository(db)
	quickAccess := service.NewQuickAccessService(db, accountRepo)
	waterIntake := service.NewWaterIntakeService(repository.NewWaterIntakeRepository(db), cfg)

	return &fixture{
		server: hydrationgrpc.NewQuickAccessServer(quickAccess, waterIntake),
		auth:   service.NewAuthService(accountRepo, cfg),
		mock:   mock,
	}
}

func accountRow(last any) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(accountColumns).AddRow(
		testAccountID, "jane@example.com", "jane@example.com", "hash", "Jane Doe",
		nil, testQuickAccessToken, last, now, now,
	)
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.Claims{
		UserID: testAccountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func withAccount(ctx context.Context, t *testing.T, f *fixture) context.Context {
	t.Helper()

	var authed context.Context
	interceptor := hydrationgrpc.AuthUnaryInterceptor(f.auth)
	md := metadata.Pairs("authorization", "Bearer "+signedToken(t, testSecret))
	_, err := interceptor(metadata.NewIncomingContext(ctx, md), nil, &grpc.UnaryServerInfo{FullMethod: hydrationgrpc.IssueMethod},
		func(ctx context.Context, _ any) (any, error) {
			authed = ctx
			return nil, nil
		})
	require.NoError(t, err)
	return authed
}

func TestRedeem_StatusCodes(t *testing.T) {
	fractional := hydrationgrpc.NewRedeemRequest(testQuickAccessToken, 0)
	fractional.Fields[hydrationgrpc.AmountMlField] = structpb.NewNumberValue(250.5)
	textual := hydrationgrpc.NewRedeemRequest(testQuickAccessToken, 0)
	textual.Fields[hydrationgrpc.AmountMlField] = structpb.NewStringValue("250")

	tests := []struct {
		name  string
		req   *structpb.Struct
		setup func(mock sqlmock.Sqlmock)
		code  codes.Code
	}{
		{name: "malformed token", req: hydrationgrpc.NewRedeemRequest("nope", 0), code: codes.Unauthenticated},
		{name: "missing token", req: &structpb.Struct{}, code: codes.Unauthenticated},
		{name: "invalid amount", req: hydrationgrpc.NewRedeemRequest(testQuickAccessToken, 9000), code: codes.InvalidArgument},
		{name: "fractional amount", req: fractional, code: codes.InvalidArgument},
		{name: "textual amount", req: textual, code: codes.InvalidArgument},
		{
			name: "unknown token",
			req:  hydrationgrpc.NewRedeemRequest(testQuickAccessToken, 0),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(findAccountByTokenQuery).WillReturnRows(sqlmock.NewRows(accountColumns))
			},
			code: codes.Unauthenticated,
		},
		{
			name: "cooldown",
			req:  hydrationgrpc.NewRedeemRequest(testQuickAccessToken, 0),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(findAccountByTokenQuery).WillReturnRows(accountRow(time.Now()))
			},
			code: codes.ResourceExhausted,
		},
		{
			name: "store failure",
			req:  hydrationgrpc.NewRedeemRequest(testQuickAccessToken, 0),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(findAccountByTokenQuery).WillReturnError(assert.AnError)
			},
			code: codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f.mock)
			}

			_, err := f.server.Redeem(context.Background(), tt.req)
			assert.Equal(t, tt.code, status.Code(err))
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestIssue_RequiresAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.server.Issue(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestIssueAndRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := withAccount(context.Background(), t, f)

	f.mock.ExpectQuery(findAccountByIDQuery).WithArgs(testAccountID).WillReturnRows(accountRow(nil))
	f.mock.ExpectExec(setQuickAccessTokenQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(findAccountByIDQuery).WithArgs(testAccountID).WillReturnRows(accountRow(nil))
	f.mock.ExpectExec(setQuickAccessTokenQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(findAccountByIDQuery).WithArgs(testAccountID).WillReturnRows(sqlmock.NewRows(accountColumns))

	issued, err := f.server.Issue(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	var account entity.SafeAccount
	require.NoError(t, hydrationgrpc.DecodeResponse(issued, hydrationgrpc.AccountField, &account))
	require.NotNil(t, account.QuickAccessToken)
	assert.True(t, service.IsValidQuickAccessToken(*account.QuickAccessToken))
	assert.Nil(t, account.LastQuickAccess)

	revoked, err := f.server.Revoke(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	var revokedAccount entity.SafeAccount
	require.NoError(t, hydrationgrpc.DecodeResponse(revoked, hydrationgrpc.AccountField, &revokedAccount))
	assert.Equal(t, testAccountID, revokedAccount.ID)
	assert.Nil(t, revokedAccount.QuickAccessToken)
	assert.Nil(t, revokedAccount.LastQuickAccess)

	_, err = f.server.Revoke(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.NotFound, status.Code(err))

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAuthUnaryInterceptor(t *testing.T) {
	f := newFixture(t)
	interceptor := hydrationgrpc.AuthUnaryInterceptor(f.auth, hydrationgrpc.RedeemMethod)
	handler := func(ctx context.Context, _ any) (any, error) {
		accountID, _ := hydrationgrpc.AccountIDFromContext(ctx)
		return accountID, nil
	}

	tests := []struct {
		name     string
		method   string
		header   string
		code     codes.Code
		expected any
	}{
		{name: "public method", method: hydrationgrpc.RedeemMethod, code: codes.OK, expected: ""},
		{name: "missing token", method: hydrationgrpc.IssueMethod, code: codes.Unauthenticated},
		{name: "malformed header", method: hydrationgrpc.IssueMethod, header: "Token abc", code: codes.Unauthenticated},
		{name: "foreign signature", method: hydrationgrpc.IssueMethod, header: "Bearer " + signedToken(t, "other"), code: codes.Unauthenticated},
		{name: "valid token", method: hydrationgrpc.TodayMethod, header: "Bearer " + signedToken(t, testSecret), code: codes.OK, expected: testAccountID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.header != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.header))
			}

			got, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, handler)
			assert.Equal(t, tt.code, status.Code(err))
			if tt.code == codes.OK {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestServer_RedeemRoundTrip(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectQuery(findAccountByTokenQuery).
		WithArgs(testQuickAccessToken).
		WillReturnRows(accountRow(nil))
	f.mock.ExpectBegin()
	f.mock.ExpectExec(claimQuickAccessQuery).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(insertWaterIntakeQuery).
		WithArgs(sqlmock.AnyArg(), testAccountID, 250, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
	f.mock.ExpectQuery(listRangeQuery).
		WithArgs(testAccountID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "created_at"}).
			AddRow("intake-1", testAccountID, 250, time.Now()))

	listener := bufconn.Listen(1 << 20)
	server := hydrationgrpc.NewServer(f.server, f.auth)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redeemed := &structpb.Struct{}
	err = conn.Invoke(ctx, hydrationgrpc.RedeemMethod, hydrationgrpc.NewRedeemRequest(testQuickAccessToken, 0), redeemed)
	require.NoError(t, err)
	var intake entity.WaterIntake
	require.NoError(t, hydrationgrpc.DecodeResponse(redeemed, hydrationgrpc.IntakeField, &intake))
	assert.Equal(t, 250, intake.AmountMl)
	assert.NotEmpty(t, intake.ID)

	today := &structpb.Struct{}
	err = conn.Invoke(ctx, hydrationgrpc.TodayMethod, &emptypb.Empty{}, today)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+signedToken(t, testSecret))
	err = conn.Invoke(authed, hydrationgrpc.TodayMethod, &emptypb.Empty{}, today)
	require.NoError(t, err)
	var stats dto.DailyStats
	require.NoError(t, hydrationgrpc.DecodeResponse(today, hydrationgrpc.StatsField, &stats))
	assert.Equal(t, 250, stats.Total)
	assert.Equal(t, 1, stats.Count)
	assert.Len(t, stats.Intakes, 1)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDecodeResponse_MissingField(t *testing.T) {
	var stats dto.DailyStats
	err := hydrationgrpc.DecodeResponse(&structpb.Struct{}, hydrationgrpc.StatsField, &stats)
	assert.Error(t, err)
}

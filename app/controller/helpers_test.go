package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/controller"
	"github.com/vibast-solutions/ms-go-hydration/app/repository"
	"github.com/vibast-solutions/ms-go-hydration/app/service"
	"github.com/vibast-solutions/ms-go-hydration/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
)

const (
	accountSelect              = `SELECT id, email, canonical_email, password_hash, name, daily_goal, quick_access_token, last_quick_access, created_at, updated_at FROM users`
	insertAccountQuery         = `(?s)INSERT INTO users \(id, email, canonical_email, password_hash, name, daily_goal, quick_access_token, last_quick_access, created_at, updated_at\) VALUES`
	findAccountByIDQuery       = `(?s)` + accountSelect + ` WHERE id = \?`
	findAccountByEmailQuery    = `(?s)` + accountSelect + ` WHERE canonical_email = \?`
	findAccountByTokenQuery    = `(?s)` + accountSelect + ` WHERE quick_access_token = \?`
	setQuickAccessTokenQuery   = `(?s)UPDATE users SET quick_access_token = \?, last_quick_access = \?, updated_at = \? WHERE id = \?`
	updateAccountQuery         = `(?s)UPDATE users SET .+ WHERE id = \?`
	claimQuickAccessQuery      = `(?s)UPDATE users SET last_quick_access = \?\s+WHERE id = \? AND quick_access_token = \?`
	insertWaterIntakeQuery     = `(?s)INSERT INTO water_intakes \(id, user_id, amount, created_at\) VALUES \(\?, \?, \?, \?\)`
	listWaterIntakesQuery      = `(?s)SELECT id, user_id, amount, created_at FROM water_intakes WHERE user_id = \? ORDER BY created_at DESC`
	listWaterIntakesRangeQuery = `(?s)SELECT id, user_id, amount, created_at FROM water_intakes WHERE user_id = \? AND created_at >= \? AND created_at < \? ORDER BY created_at DESC`

	testAccountID        = "7f0c3c1e-2a4b-4c7d-9e1f-0a1b2c3d4e5f"
	testEmail            = "jane@example.com"
	testQuickAccessToken = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
)

var (
	accountColumns = []string{
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
	waterIntakeColumns = []string{
		"id",
		"user_id",
		"amount",
		"created_at",
	}
	testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
)

type controllers struct {
	auth        *controller.AuthController
	profile     *controller.ProfileController
	waterIntake *controller.WaterIntakeController
}

func newControllersWithMock(t *testing.T) (*controllers, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:         "test-secret",
			AccessTokenTTL: 15 * time.Minute,
		},
		Password: config.PasswordConfig{
			Policy: config.PasswordPolicy{
				MinLength:        8,
				MaxLength:        72,
				RequireUppercase: true,
				RequireLowercase: true,
				RequireNumber:    true,
			},
		},
		Hydration: config.HydrationConfig{Location: time.UTC},
	}

	clock := service.WithClock(func() time.Time { return testNow })
	accountRepo := repository.NewAccountRepository(db)
	intakeRepo := repository.NewWaterIntakeRepository(db)
	authService := service.NewAuthService(accountRepo, cfg, clock)
	profileService := service.NewProfileService(accountRepo, cfg, clock)
	quickAccessService := service.NewQuickAccessService(db, accountRepo, clock)
	waterIntakeService := service.NewWaterIntakeService(intakeRepo, cfg, clock)

	return &controllers{
		auth:        controller.NewAuthController(authService, quickAccessService),
		profile:     controller.NewProfileController(profileService),
		waterIntake: controller.NewWaterIntakeController(waterIntakeService, quickAccessService),
	}, mock, func() { _ = db.Close() }
}

func newJSONRequest(t *testing.T, method, path string, body any) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

// newAuthedContext returns a context as RequireAuth leaves it.
func newAuthedContext(req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	ctx := echo.New().NewContext(req, rec)
	ctx.Set("user_id", testAccountID)
	return ctx
}

func accountRow(passwordHash string, token, last any) *sqlmock.Rows {
	return sqlmock.NewRows(accountColumns).AddRow(
		testAccountID,
		testEmail,
		testEmail,
		passwordHash,
		"Jane Doe",
		nil,
		token,
		last,
		testNow.Add(-24*time.Hour),
		testNow.Add(-24*time.Hour),
	)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	return body
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

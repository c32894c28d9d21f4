package service_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/config"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	accountSelect              = `SELECT id, email, canonical_email, password_hash, name, daily_goal, quick_access_token, last_quick_access, created_at, updated_at FROM users`
	insertAccountQuery         = `(?s)INSERT INTO users \(id, email, canonical_email, password_hash, name, daily_goal, quick_access_token, last_quick_access, created_at, updated_at\) VALUES`
	findAccountByIDQuery       = `(?s)` + accountSelect + ` WHERE id = \?`
	findAccountByEmailQuery    = `(?s)` + accountSelect + ` WHERE canonical_email = \?`
	findAccountByTokenQuery    = `(?s)` + accountSelect + ` WHERE quick_access_token = \?`
	setQuickAccessTokenQuery   = `(?s)UPDATE users SET quick_access_token = \?, last_quick_access = \?, updated_at = \? WHERE id = \?`
	claimQuickAccessQuery      = `(?s)UPDATE users SET last_quick_access = \?\s+WHERE id = \? AND quick_access_token = \?`
	insertWaterIntakeQuery     = `(?s)INSERT INTO water_intakes \(id, user_id, amount, created_at\) VALUES \(\?, \?, \?, \?\)`
	listWaterIntakesQuery      = `(?s)SELECT id, user_id, amount, created_at FROM water_intakes WHERE user_id = \? ORDER BY created_at DESC`
	listWaterIntakesRangeQuery = `(?s)SELECT id, user_id, amount, created_at FROM water_intakes WHERE user_id = \? AND created_at >= \? AND created_at < \? ORDER BY created_at DESC`

	testAccountID        = "7f0c3c1e-2a4b-4c7d-9e1f-0a1b2c3d4e5f"
	testEmail            = "jane.doe@example.com"
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

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:         "test-secret",
			AccessTokenTTL: 15 * time.Minute,
		},
		Password: config.PasswordConfig{
			Policy: config.PasswordPolicy{MinLength: 1, MaxLength: 72},
		},
		Hydration: config.HydrationConfig{Location: time.UTC},
	}
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

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/entity"
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

type AccountRepository struct {
	db    DBTX
	table table[entity.Account]
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{
		db: db,
		table: table[entity.Account]{
			db:      db,
			name:    "users",
			key:     "id",
			columns: accountColumns,
			scan:    scanAccount,
		},
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return r.table.insert(ctx,
		Column{"id", account.ID},
		Column{"email", account.Email},
		Column{"canonical_email", account.CanonicalEmail},
		Column{"password_hash", account.PasswordHash},
		Column{"name", account.Name},
		Column{"daily_goal", account.DailyGoal},
		Column{"quick_access_token", account.QuickAccessToken},
		Column{"last_quick_access", account.LastQuickAccess},
		Column{"created_at", account.CreatedAt},
		Column{"updated_at", account.UpdatedAt},
	)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.table.findOne(ctx, "id", id)
}

func (r *AccountRepository) FindByCanonicalEmail(ctx context.Context, canonicalEmail string) (*entity.Account, error) {
	return r.table.findOne(ctx, "canonical_email", canonicalEmail)
}

func (r *AccountRepository) FindByQuickAccessToken(ctx context.Context, token string) (*entity.Account, error) {
	return r.table.findOne(ctx, "quick_access_token", token)
}

// Update writes only the given columns and always bumps updated_at.
func (r *AccountRepository) Update(ctx context.Context, id string, updatedAt time.Time, cols ...Column) error {
	cols = append(cols, Column{"updated_at", updatedAt})
	return r.table.update(ctx, id, cols...)
}

// SetQuickAccessToken replaces the token and clears the last redemption time.
// A null token revokes quick access.
func (r *AccountRepository) SetQuickAccessToken(ctx context.Context, id string, token sql.NullString, updatedAt time.Time) error {
	return r.Update(ctx, id, updatedAt,
		Column{"quick_access_token", token},
		Column{"last_quick_access", sql.NullTime{}},
	)
}

// ClaimQuickAccess stamps last_quick_access only if the token still belongs to
// the account and the previous redemption is at or before cutoff. It reports
// whether the claim was taken.
func (r *AccountRepository) ClaimQuickAccess(ctx context.Context, id, token string, now, cutoff time.Time) (bool, error) {
	query := `
		UPDATE users SET last_quick_access = ?
		WHERE id = ? AND quick_access_token = ?
		  AND (last_quick_access IS NULL OR last_quick_access <= ?)
	`
	result, err := r.db.ExecContext(ctx, query, now, id, token, cutoff)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func scanAccount(scan rowScanner) (*entity.Account, error) {
	account := &entity.Account{}
	if err := scan(
		&account.ID,
		&account.Email,
		&account.CanonicalEmail,
		&account.PasswordHash,
		&account.Name,
		&account.DailyGoal,
		&account.QuickAccessToken,
		&account.LastQuickAccess,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return account, nil
}

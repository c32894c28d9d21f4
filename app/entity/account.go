package entity

import (
	"database/sql"
	"time"
)

type Account struct {
	ID               string
	Email            string
	CanonicalEmail   string
	PasswordHash     string
	Name             string
	DailyGoal        sql.NullInt64
	QuickAccessToken sql.NullString
	LastQuickAccess  sql.NullTime
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SafeAccount is an Account without its password hash.
type SafeAccount struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	DailyGoal        *int64     `json:"daily_goal"`
	QuickAccessToken *string    `json:"quick_access_token"`
	LastQuickAccess  *time.Time `json:"last_quick_access"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (a *Account) Safe() *SafeAccount {
	safe := &SafeAccount{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.DailyGoal.Valid {
		goal := a.DailyGoal.Int64
		safe.DailyGoal = &goal
	}
	if a.QuickAccessToken.Valid {
		token := a.QuickAccessToken.String
		safe.QuickAccessToken = &token
	}
	if a.LastQuickAccess.Valid {
		last := a.LastQuickAccess.Time
		safe.LastQuickAccess = &last
	}
	return safe
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/entity"
	"github.com/vibast-solutions/ms-go-hydration/app/metrics"
	"github.com/vibast-solutions/ms-go-hydration/app/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	QuickAccessCooldown        = 5 * time.Minute
	QuickAccessDefaultAmountMl = 250
	MaxIntakeAmountMl          = 5000
)

// QuickAccessService issues, revokes and redeems per-account quick-access
// tokens. A redemption logs one water intake without a session.
type QuickAccessService interface {
	IssueToken(ctx context.Context, accountID string) (*entity.SafeAccount, error)
	RevokeToken(ctx context.Context, accountID string) (*entity.SafeAccount, error)
	Redeem(ctx context.Context, token string, amountMl int) (*entity.WaterIntake, error)
}

type quickAccessService struct {
	db          *sql.DB
	accountRepo accountRepository
	opts        options
}

func NewQuickAccessService(db *sql.DB, accountRepo accountRepository, opts ...Option) QuickAccessService {
	return &quickAccessService{
		db:          db,
		accountRepo: accountRepo,
		opts:        newOptions(opts),
	}
}

func (s *quickAccessService) IssueToken(ctx context.Context, accountID string) (*entity.SafeAccount, error) {
	account, err := findAccount(ctx, s.accountRepo, accountID)
	if err != nil {
		return nil, err
	}

	token, err := generateQuickAccessToken(s.opts.random)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	quickAccessToken := sql.NullString{String: token, Valid: true}
	if err = s.accountRepo.SetQuickAccessToken(ctx, account.ID, quickAccessToken, now); err != nil {
		return nil, storeError(err)
	}
	s.opts.metrics.ObserveTokenOperation(metrics.OperationIssue)

	account.QuickAccessToken = quickAccessToken
	account.LastQuickAccess = sql.NullTime{}
	account.UpdatedAt = now
	return account.Safe(), nil
}

func (s *quickAccessService) RevokeToken(ctx context.Context, accountID string) (*entity.SafeAccount, error) {
	account, err := findAccount(ctx, s.accountRepo, accountID)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	if err = s.accountRepo.SetQuickAccessToken(ctx, account.ID, sql.NullString{}, now); err != nil {
		return nil, storeError(err)
	}
	s.opts.metrics.ObserveTokenOperation(metrics.OperationRevoke)

	account.QuickAccessToken = sql.NullString{}
	account.LastQuickAccess = sql.NullTime{}
	account.UpdatedAt = now
	return account.Safe(), nil
}

func (s *quickAccessService) Redeem(ctx context.Context, token string, amountMl int) (*entity.WaterIntake, error) {
	intake, err := s.redeem(ctx, token, amountMl)
	s.opts.metrics.ObserveRedemption(redemptionOutcome(err))
	if err == nil {
		s.opts.metrics.ObserveIntake(intake.AmountMl)
	}
	return intake, err
}

func (s *quickAccessService) redeem(ctx context.Context, token string, amountMl int) (*entity.WaterIntake, error) {
	if !IsValidQuickAccessToken(token) {
		return nil, ErrInvalidQuickAccessToken
	}
	if amountMl == 0 {
		amountMl = QuickAccessDefaultAmountMl
	}
	if amountMl < 1 || amountMl > MaxIntakeAmountMl {
		return nil, ErrInvalidAmount
	}

	account, err := s.accountRepo.FindByQuickAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidQuickAccessToken
		}
		return nil, storeError(err)
	}

	now := s.opts.now()
	if remaining := cooldownRemaining(account.LastQuickAccess, now); remaining > 0 {
		return nil, &CooldownError{RetryAfter: remaining}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeError(err)
	}
	defer tx.Rollback()

	claimed, err := repository.NewAccountRepository(tx).ClaimQuickAccess(ctx, account.ID, token, now, now.Add(-QuickAccessCooldown))
	if err != nil {
		return nil, storeError(err)
	}
	if !claimed {
		logrus.WithField("user_id", account.ID).Debug("Quick access claim lost to a concurrent redemption")
		return nil, &CooldownError{RetryAfter: QuickAccessCooldown}
	}

	intake := &entity.WaterIntake{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		AmountMl:  amountMl,
		CreatedAt: now,
	}
	if err = repository.NewWaterIntakeRepository(tx).Create(ctx, intake); err != nil {
		return nil, storeError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, storeError(err)
	}

	return intake, nil
}

func cooldownRemaining(last sql.NullTime, now time.Time) time.Duration {
	if !last.Valid {
		return 0
	}
	elapsed := now.Sub(last.Time)
	if elapsed >= QuickAccessCooldown {
		return 0
	}
	return QuickAccessCooldown - elapsed
}

func redemptionOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeRecorded
	case errors.Is(err, ErrInvalidQuickAccessToken):
		return metrics.OutcomeUnauthorized
	case errors.Is(err, ErrCooldownActive):
		return metrics.OutcomeCooldown
	case errors.Is(err, ErrInvalidAmount):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-hydration/app/entity"
	"github.com/vibast-solutions/ms-go-hydration/app/repository"
	"github.com/vibast-solutions/ms-go-hydration/app/types"
	"github.com/vibast-solutions/ms-go-hydration/config"

	"golang.org/x/crypto/bcrypt"
)

type ProfileService interface {
	GetProfile(ctx context.Context, accountID string) (*entity.SafeAccount, error)
	UpdateProfile(ctx context.Context, accountID string, req *types.UpdateProfileRequest) (*entity.SafeAccount, error)
}

type profileService struct {
	accountRepo accountRepository
	cfg         *config.Config
	opts        options
}

func NewProfileService(accountRepo accountRepository, cfg *config.Config, opts ...Option) ProfileService {
	return &profileService{
		accountRepo: accountRepo,
		cfg:         cfg,
		opts:        newOptions(opts),
	}
}

func (s *profileService) GetProfile(ctx context.Context, accountID string) (*entity.SafeAccount, error) {
	account, err := findAccount(ctx, s.accountRepo, accountID)
	if err != nil {
		return nil, err
	}
	return account.Safe(), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, accountID string, req *types.UpdateProfileRequest) (*entity.SafeAccount, error) {
	account, err := findAccount(ctx, s.accountRepo, accountID)
	if err != nil {
		return nil, err
	}

	var cols []repository.Column

	if req.Name != nil {
		account.Name = strings.TrimSpace(*req.Name)
		cols = append(cols, repository.Column{Name: "name", Value: account.Name})
	}

	if req.Email != nil {
		email := CanonicalizeEmail(*req.Email)
		canonicalEmail := email
		if canonicalEmail != account.CanonicalEmail {
			_, err = s.accountRepo.FindByCanonicalEmail(ctx, canonicalEmail)
			if err == nil {
				return nil, ErrUserExists
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, storeError(err)
			}
		}
		account.Email = email
		account.CanonicalEmail = canonicalEmail
		cols = append(cols,
			repository.Column{Name: "email", Value: account.Email},
			repository.Column{Name: "canonical_email", Value: account.CanonicalEmail},
		)
	}

	if req.Password != nil {
		if err = s.cfg.Password.Policy.Validate(*req.Password); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = string(hashedPassword)
		cols = append(cols, repository.Column{Name: "password_hash", Value: account.PasswordHash})
	}

	if req.DailyGoal != nil {
		account.DailyGoal.Int64 = *req.DailyGoal
		account.DailyGoal.Valid = true
		cols = append(cols, repository.Column{Name: "daily_goal", Value: account.DailyGoal})
	}

	if len(cols) == 0 {
		return account.Safe(), nil
	}

	now := s.opts.now()
	if err = s.accountRepo.Update(ctx, account.ID, now, cols...); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrUserExists
		}
		return nil, storeError(err)
	}
	account.UpdatedAt = now

	return account.Safe(), nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/dto"
	"github.com/vibast-solutions/ms-go-hydration/app/entity"
	"github.com/vibast-solutions/ms-go-hydration/app/repository"
	"github.com/vibast-solutions/ms-go-hydration/app/types"
	"github.com/vibast-solutions/ms-go-hydration/config"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const mysqlDuplicateEntry = 1062

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type accountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	FindByCanonicalEmail(ctx context.Context, canonicalEmail string) (*entity.Account, error)
	FindByQuickAccessToken(ctx context.Context, token string) (*entity.Account, error)
	Update(ctx context.Context, id string, updatedAt time.Time, cols ...repository.Column) error
	SetQuickAccessToken(ctx context.Context, id string, token sql.NullString, updatedAt time.Time) error
}

type AuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req *types.LoginRequest) (*dto.AuthResult, error)
	Logout(ctx context.Context, accountID string) error
	Me(ctx context.Context, accountID string) (*entity.SafeAccount, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type authService struct {
	accountRepo accountRepository
	cfg         *config.Config
	opts        options
}

func NewAuthService(accountRepo accountRepository, cfg *config.Config, opts ...Option) AuthService {
	return &authService{
		accountRepo: accountRepo,
		cfg:         cfg,
		opts:        newOptions(opts),
	}
}

func (s *authService) Register(ctx context.Context, req *types.RegisterRequest) (*dto.AuthResult, error) {
	email := CanonicalizeEmail(req.Email)
	canonicalEmail := email

	_, err := s.accountRepo.FindByCanonicalEmail(ctx, canonicalEmail)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err)
	}

	if err = s.cfg.Password.Policy.Validate(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	quickAccessToken, err := generateQuickAccessToken(s.opts.random)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	account := &entity.Account{
		ID:               uuid.NewString(),
		Email:            email,
		CanonicalEmail:   canonicalEmail,
		PasswordHash:     string(hashedPassword),
		Name:             strings.TrimSpace(req.Name),
		QuickAccessToken: sql.NullString{String: quickAccessToken, Valid: true},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err = s.accountRepo.Create(ctx, account); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrUserExists
		}
		return nil, storeError(err)
	}

	accessToken, err := s.generateAccessToken(account)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResult{
		AccessToken: accessToken,
		User:        account.Safe(),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *types.LoginRequest) (*dto.AuthResult, error) {
	account, err := s.accountRepo.FindByCanonicalEmail(ctx, CanonicalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError(err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(account)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResult{
		AccessToken: accessToken,
		User:        account.Safe(),
	}, nil
}

// Logout is a no-op: access tokens are stateless and expire on their own.
func (s *authService) Logout(_ context.Context, _ string) error {
	return nil
}

func (s *authService) Me(ctx context.Context, accountID string) (*entity.SafeAccount, error) {
	account, err := findAccount(ctx, s.accountRepo, accountID)
	if err != nil {
		return nil, err
	}
	return account.Safe(), nil
}

func (s *authService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *authService) generateAccessToken(account *entity.Account) (string, error) {
	now := s.opts.now()
	claims := &Claims{
		UserID: account.ID,
		Email:  account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   account.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

func findAccount(ctx context.Context, repo accountRepository, accountID string) (*entity.Account, error) {
	account, err := repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return account, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

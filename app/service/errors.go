package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserExists              = errors.New("user already exists")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrWeakPassword            = errors.New("password does not meet policy requirements")
	ErrInvalidQuickAccessToken = errors.New("invalid quick access token")
	ErrCooldownActive          = errors.New("please wait before adding another water intake")
	ErrInvalidAmount           = errors.New("amount must be between 1 and 5000 ml")
	ErrInvalidDate             = errors.New("date must be formatted as YYYY-MM-DD")
	ErrTokenGeneration         = errors.New("failed to generate valid quick access token")
	ErrStoreUnavailable        = errors.New("store unavailable")
)

// CooldownError is returned by Redeem while the cooldown window is open.
// It matches ErrCooldownActive under errors.Is.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return ErrCooldownActive.Error()
}

func (e *CooldownError) Unwrap() error {
	return ErrCooldownActive
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

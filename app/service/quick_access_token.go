package service

import (
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
)

const quickAccessTokenBytes = 32

var quickAccessTokenPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// IsValidQuickAccessToken reports whether token is 64 lowercase hex characters.
func IsValidQuickAccessToken(token string) bool {
	return quickAccessTokenPattern.MatchString(token)
}

func generateQuickAccessToken(random io.Reader) (string, error) {
	secret := make([]byte, quickAccessTokenBytes)
	if _, err := io.ReadFull(random, secret); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}

	token := hex.EncodeToString(secret)
	if !IsValidQuickAccessToken(token) {
		return "", ErrTokenGeneration
	}
	return token, nil
}

package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	service = "studysync"
	user    = "notion-api-token"

	// EnvToken overrides the keyring when set. Useful for CI and containers
	// where no OS keyring is available.
	EnvToken = "NOTION_API_KEY"
)

var (
	// ErrNotFound is returned when no token is stored in the keyring
	ErrNotFound = errors.New("token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// ResolveToken returns the Notion API token, preferring the EnvToken
// environment variable over the OS keyring.
func ResolveToken() (string, error) {
	if token := os.Getenv(EnvToken); token != "" {
		return token, nil
	}
	return GetToken()
}

// GetToken retrieves the Notion API token from the OS keyring.
// Returns ErrNotFound if no token is stored.
func GetToken() (string, error) {
	token, err := keyring.Get(service, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetToken stores the Notion API token in the OS keyring.
func SetToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(service, user, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the Notion API token from the OS keyring.
func DeleteToken() error {
	err := keyring.Delete(service, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is usable on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(service, "availability-probe")
	return err == nil || err == keyring.ErrNotFound
}

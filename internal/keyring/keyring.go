// Package keyring keeps the storage DSN for server backends in the OS
// keyring so passwords never land in config.toml.
package keyring

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/kunal-511/weekendly/internal/constants"
)

var (
	// ErrNotFound is returned when no DSN is stored in the keyring
	ErrNotFound = errors.New("storage DSN not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetDSN retrieves the storage DSN. Returns ErrNotFound if none is stored.
func GetDSN() (string, error) {
	dsn, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return dsn, nil
}

func SetDSN(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		return errors.New("DSN cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, dsn); err != nil {
		return fmt.Errorf("failed to store DSN in keyring: %w", err)
	}
	return nil
}

func DeleteDSN() error {
	if err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete DSN from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Mask hides the password of a URL or key=value DSN for display.
func Mask(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); ok {
			return u.Redacted()
		}
		return dsn
	}

	if !strings.Contains(dsn, "password=") {
		return dsn
	}
	parts := strings.Fields(dsn)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=xxxxx"
		}
	}
	return strings.Join(parts, " ")
}

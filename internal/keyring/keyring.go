package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/datebook/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for the requested user
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func set(user, secret, what string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func del(user, what string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetConnectionString retrieves the Postgres connection string.
func GetConnectionString() (string, error) {
	return get(constants.KeyringConnectionUser)
}

// SetConnectionString stores the Postgres connection string.
func SetConnectionString(connStr string) error {
	return set(constants.KeyringConnectionUser, connStr, "connection string")
}

// DeleteConnectionString removes the Postgres connection string.
func DeleteConnectionString() error {
	return del(constants.KeyringConnectionUser, "connection string")
}

// GetSMTPPassword retrieves the SMTP password used for email reminders.
func GetSMTPPassword() (string, error) {
	return get(constants.KeyringSMTPUser)
}

// SetSMTPPassword stores the SMTP password.
func SetSMTPPassword(password string) error {
	return set(constants.KeyringSMTPUser, password, "SMTP password")
}

// DeleteSMTPPassword removes the SMTP password.
func DeleteSMTPPassword() error {
	return del(constants.KeyringSMTPUser, "SMTP password")
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

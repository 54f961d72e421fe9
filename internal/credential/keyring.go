// Package credential stores the backend bearer token in the system keyring.
package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "notifyprefs"

// tokenKey is the keyring entry holding the backend bearer token.
const tokenKey = "api-token"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/notifyprefs/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("notifyprefs-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token retrieves the stored bearer token. A missing entry returns an
// empty token and no error, which the app treats as "not authenticated".
func Token() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		if err == keyring.ErrKeyNotFound {
			return "", nil
		}
		return "", fmt.Errorf("getting token: %w", err)
	}

	return string(item.Data), nil
}

// SetToken stores the bearer token in the system keyring.
func SetToken(value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting token: %w", err)
	}

	return nil
}

// DeleteToken removes the stored bearer token.
func DeleteToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil && err != keyring.ErrKeyNotFound {
		return fmt.Errorf("deleting token: %w", err)
	}

	return nil
}

package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// TokenStore is the interface for storing and retrieving the access token
type TokenStore interface {
	// Store saves the access token
	Store(token string) error

	// Retrieve gets the stored access token
	Retrieve() (string, error)

	// Delete removes the stored access token
	Delete() error

	// Exists checks if a token is stored
	Exists() bool
}

// Manager handles token storage with fallback mechanisms
type Manager struct {
	stores []TokenStore
}

// NewManager creates a new token manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []TokenStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	stores = append(stores, NewEncryptedFileStore(filepath.Join(configDir, "token.enc")))

	return &Manager{stores: stores}, nil
}

// Store saves the token using the first store that accepts it
func (m *Manager) Store(token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(token); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store token: %w", lastErr)
	}
	return errors.New("no available token stores")
}

// Retrieve gets the token from the first store that has one
func (m *Manager) Retrieve() (string, error) {
	for _, store := range m.stores {
		if token, err := store.Retrieve(); err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

// Delete removes the token from all stores
func (m *Manager) Delete() error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(); err == nil {
			deleted = true
		} else if !errors.Is(err, ErrTokenNotFound) {
			lastErr = err
		}
	}

	if deleted {
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("failed to delete token: %w", lastErr)
	}
	return ErrTokenNotFound
}

// Exists checks whether any store holds a token
func (m *Manager) Exists() bool {
	for _, store := range m.stores {
		if store.Exists() {
			return true
		}
	}
	return false
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "pindl")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "pindl")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "pindl")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "pindl")
		}
	}

	return configDir, nil
}

// Errors
var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrStoreUnavailable = errors.New("token store unavailable")
)

package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "jflow"

// ErrNotFound is returned when no token is stored for a site.
var ErrNotFound = errors.New("credential: not found")

// Store keeps API tokens keyed by Jira host.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the OS keyring.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/jflow/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("jflow-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("credential: open keyring: %w", err)
	}
	return NewStore(ring), nil
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get retrieves the token stored for host.
func (s *Store) Get(host string) (string, error) {
	item, err := s.ring.Get(host)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("credential: get %q: %w", host, err)
	}
	return string(item.Data), nil
}

// Set stores token for host.
func (s *Store) Set(host, token string) error {
	err := s.ring.Set(keyring.Item{
		Key:   host,
		Data:  []byte(token),
		Label: serviceName + " " + host,
	})
	if err != nil {
		return fmt.Errorf("credential: set %q: %w", host, err)
	}
	return nil
}

// Delete removes the token stored for host.
func (s *Store) Delete(host string) error {
	if err := s.ring.Remove(host); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("credential: delete %q: %w", host, err)
	}
	return nil
}

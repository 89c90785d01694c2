// Package localstore owns every piece of state the storefront
// persists on the local machine: the cart, the wishlist, the auth
// tokens and the remembered user email. Each key is one
// JSON-serialized value in its own file under the state directory,
// written whole on every mutation. There is no versioning and no
// cross-process locking; concurrent writers can lose updates, which
// is accepted for a single-user client.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Persisted keys. All reads and writes of these go through this
// package; call sites never touch the files directly.
const (
	KeyCart      = "cart"
	KeyWishlist  = "wishlist"
	KeyAccess    = "access"
	KeyRefresh   = "refresh"
	KeyAuthToken = "authToken" // legacy mirror of access
	KeyUserEmail = "userEmail"
)

// Store is a key-value store backed by one file per key.
type Store struct {
	dir string
}

// Open ensures dir exists and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get decodes the value stored under key into v. An absent key leaves
// v untouched so callers get their zero value as the default.
func (s *Store) Get(key string, v any) error {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Set serializes v as a whole and replaces the value under key.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the value under key. Removing an absent key is not
// an error.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// GetString is Get for plain string values such as tokens.
func (s *Store) GetString(key string) (string, error) {
	var v string
	err := s.Get(key, &v)
	return v, err
}

// SetString is Set for plain string values.
func (s *Store) SetString(key, value string) error {
	return s.Set(key, value)
}

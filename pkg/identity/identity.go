// Package identity holds the client-side creator credential: one high-entropy
// secret per installation, created lazily on first use and reused for every
// publish and edit. Losing the file forfeits edit rights for all documents it
// owns; there is no recovery path.
package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quickshare/pkg/credential"
)

const credentialFile = "credential"

type Store struct {
	dir string
}

// NewStore places the credential under the user config dir, e.g.
// ~/.config/quickshare/credential on Linux.
func NewStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return NewStoreAt(filepath.Join(base, "quickshare")), nil
}

// NewStoreAt uses an explicit directory. Used by tests.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Credential returns the persisted secret, generating and saving one on first
// use. A corrupt file is an error, never silently replaced: overwriting it
// would permanently orphan every document it owns.
func (s *Store) Credential() (string, error) {
	path := filepath.Join(s.dir, credentialFile)

	raw, err := os.ReadFile(path)
	if err == nil {
		secret := strings.TrimSpace(string(raw))
		if !credential.WellFormed(secret) {
			return "", fmt.Errorf("credential file %s is corrupt", path)
		}
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}

	secret, err := credential.Generate()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create credential dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to save credential: %w", err)
	}
	return secret, nil
}

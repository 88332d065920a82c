// Package credentials persists the bearer credential in a single named slot
// on disk, the only place it is read or written. Keeping one read/write
// surface lets the session store update the token and the resolved user
// together.
package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gadgetloop/storefront/internal/errors"
)

const (
	dirName  = ".gadgetloop"
	fileName = "credentials.json"
)

// Credentials is the persisted credential slot contents.
type Credentials struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// Present reports whether a token is stored.
func (c Credentials) Present() bool {
	return c.Token != ""
}

// Store reads and writes the credential file.
type Store struct {
	path string
}

// NewStore creates a credential store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the standard credential file location,
// ~/.gadgetloop/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeCredentialStore, "cannot resolve home directory", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Save writes the credential slot. The file is created 0600; the containing
// directory 0700.
func (s *Store) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrap(errors.ErrCodeCredentialStore, "cannot create credential directory", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeCredentialStore, "cannot encode credentials", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeCredentialStore, "cannot write credential file", err)
	}
	return nil
}

// Load reads the credential slot. A missing file is not an error; it returns
// empty Credentials. A stored token that is a JWT with an expiry already in
// the past is discarded at read time so callers never attempt a bootstrap
// that is guaranteed to fail.
func (s *Store) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		return Credentials{}, errors.Wrap(errors.ErrCodeCredentialStore, "cannot read credential file", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt slot is treated as absent rather than fatal.
		return Credentials{}, nil
	}

	if creds.Token != "" && tokenExpired(creds.Token, time.Now()) {
		_ = s.Clear()
		return Credentials{}, nil
	}

	return creds, nil
}

// Clear removes the credential file. Clearing an already-absent slot is not
// an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeCredentialStore, "cannot remove credential file", err)
	}
	return nil
}

// tokenExpired reports whether token is a JWT whose exp claim is before now.
// The token is treated as opaque everywhere else; this is a local peek only
// (no signature verification), and tokens that do not parse as JWTs are
// assumed live; the backend remains the authority either way.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Package session holds the process-wide bearer token identifying the
// current authenticated user. The token is written only by login, signup,
// and logout flows and read by the API client on every call; it is never
// cached beyond a single request.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is the single bearer credential. An empty token means
// unauthenticated. When a path is configured the token survives restarts;
// that file is the only local persistence in the client.
type Session struct {
	mu         sync.RWMutex
	token      string
	path       string
	passphrase string
}

// New creates an empty, unauthenticated session. path may be empty for a
// purely in-memory session (used in tests). A non-empty passphrase enables
// encryption of the token file at rest.
func New(path, passphrase string) *Session {
	return &Session{path: path, passphrase: passphrase}
}

// Open creates a session and restores a previously persisted token if one
// exists. A missing token file is not an error; the session just starts
// unauthenticated.
func Open(path, passphrase string) (*Session, error) {
	s := New(path, passphrase)
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read token file: %w", err)
	}

	token := string(data)
	if passphrase != "" {
		token, err = decryptToken(data, passphrase)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}
	s.token = token
	return s, nil
}

// Token returns the current bearer token, or "" when unauthenticated.
// Implements knowbargain.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores the token and persists it when a path is configured.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if s.path == "" {
		return nil
	}

	data := []byte(token)
	if s.passphrase != "" {
		var err error
		data, err = encryptToken(token, s.passphrase)
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write token file: %w", err)
	}
	return nil
}

// Clear forgets the token and removes the token file.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: remove token file: %w", err)
	}
	return nil
}

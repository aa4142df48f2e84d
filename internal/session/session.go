// Package session persists the client's login state: the bearer
// credential and a minimal account descriptor. A session is created on
// login or registration and removed entirely on logout.
package session

import (
	"encoding/json"
	"fmt"
	"os"
)

// Account is the minimal descriptor the client keeps about the
// logged-in account.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the persisted login state.
type Session struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// Load reads a session from path. A missing file is an error; callers
// gate on config.HasSession first for friendlier messages.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("session: read %s: %w", path, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("session: invalid %s: %w", path, err)
	}
	if s.Token == "" {
		return Session{}, fmt.Errorf("session: %s has no token", path)
	}
	return s, nil
}

// Save writes the session to path with owner-only permissions.
func Save(path string, s Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("session: write %s: %w", path, err)
	}
	return nil
}

// Clear removes the session file. Missing files are not an error.
func Clear(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove %s: %w", path, err)
	}
	return nil
}

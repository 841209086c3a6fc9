package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrNoSession is returned by LoadSession when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Session is the persisted login of the CLI user.
type Session struct {
	UserID       string `toml:"user_id"`
	Email        string `toml:"email"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
}

// LoadSession reads the session file in dir.
func LoadSession(dir string) (*Session, error) {
	var s Session
	_, err := toml.DecodeFile(filepath.Join(dir, SessionFileName), &s)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.AccessToken == "" && s.RefreshToken == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// SaveSession writes s to dir, readable by the owner only.
func SaveSession(dir string, s *Session) error {
	return writeTOML(dir, SessionFileName, 0o600, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(s)
	})
}

// ClearSession removes the session file. A missing file is not an error.
func ClearSession(dir string) error {
	err := os.Remove(filepath.Join(dir, SessionFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

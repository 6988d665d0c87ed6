package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alexanderramin/plannersmart/internal/config"
	"gopkg.in/yaml.v3"
)

// Session is the logged-in state saved between CLI invocations.
type Session struct {
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token"`
	Username  string `yaml:"username"`
	UserID    int64  `yaml:"user_id"`
}

// LoadSession reads the session file. A missing file is an empty session.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	return &s, nil
}

// SaveSession writes s with owner-only permissions.
func SaveSession(path string, s *Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return config.WriteFileAtomic(path, data)
}

// ClearSession removes the session file if it exists.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

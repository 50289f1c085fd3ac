package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const sessionFile = "auth.toml"

// Session is the signed-in identity. An empty UserID means signed out.
type Session struct {
	UserID     string    `toml:"user_id"`
	SignedInAt time.Time `toml:"signed_in_at"`
}

func LoadSession(dir string) (Session, error) {
	var s Session
	_, err := toml.DecodeFile(filepath.Join(dir, sessionFile), &s)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Session{}, fmt.Errorf("Failed to read session: %w", err)
	}
	return s, nil
}

func SaveSession(dir string, s Session) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, sessionFile), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("Failed to write session: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s)
}

func ClearSession(dir string) error {
	err := os.Remove(filepath.Join(dir, sessionFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

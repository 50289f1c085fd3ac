package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const settingsFile = "settings.toml"

// Settings are the user's player preferences.
type Settings struct {
	ShowBackgroundPhotos     bool `toml:"show_background_photos"`
	ShowBlossoms             bool `toml:"show_blossoms"`
	FastGesturesEnabled      bool `toml:"fast_gestures_enabled"`
	ResetSlowdownEachSession bool `toml:"reset_slowdown_each_session"`
}

func DefaultSettings() Settings {
	return Settings{
		ShowBackgroundPhotos:     true,
		ShowBlossoms:             true,
		FastGesturesEnabled:      true,
		ResetSlowdownEachSession: true,
	}
}

var ErrUnknownSetting = errors.New("unknown setting")

// field maps a setting's file key to its flag.
func (s *Settings) field(key string) (*bool, bool) {
	switch key {
	case "show_background_photos":
		return &s.ShowBackgroundPhotos, true
	case "show_blossoms":
		return &s.ShowBlossoms, true
	case "fast_gestures_enabled":
		return &s.FastGesturesEnabled, true
	case "reset_slowdown_each_session":
		return &s.ResetSlowdownEachSession, true
	}
	return nil, false
}

// Keys lists the setting names in display order.
func (s *Settings) Keys() []string {
	return []string{"show_background_photos", "show_blossoms", "fast_gestures_enabled", "reset_slowdown_each_session"}
}

func (s *Settings) Get(key string) (bool, error) {
	f, ok := s.field(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return *f, nil
}

func (s *Settings) Set(key string, value bool) error {
	f, ok := s.field(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	*f = value
	return nil
}

// Toggle flips a setting and returns its new value.
func (s *Settings) Toggle(key string) (bool, error) {
	f, ok := s.field(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	*f = !*f
	return *f, nil
}

// LoadSettings reads settings.toml from dir. Keys absent from the file keep their
// defaults.
func LoadSettings(dir string) (Settings, error) {
	s := DefaultSettings()
	_, err := toml.DecodeFile(filepath.Join(dir, settingsFile), &s)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("Failed to read settings: %w", err)
	}
	return s, nil
}

func SaveSettings(dir string, s Settings) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Write next to the target and rename, so a crash never leaves half a file.
	tmp, err := os.CreateTemp(dir, settingsFile+".*")
	if err != nil {
		return fmt.Errorf("Failed to write settings: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(s); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("Failed to encode settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, settingsFile))
}

package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
)

const playerStateFile = "player_state.toml"

func playerStatePath(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, playerStateFile), nil
}

func SavePlayerState(dir string, state *models.PlayerState) error {
	path, err := playerStatePath(dir)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(state)
}

// LoadPlayerState returns the zero state when nothing was saved yet.
func LoadPlayerState(dir string) (*models.PlayerState, error) {
	path, err := playerStatePath(dir)
	if err != nil {
		return nil, err
	}

	var state models.PlayerState
	_, err = toml.DecodeFile(path, &state)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &state, nil
		}
		return nil, err
	}

	return &state, nil
}

func ClearPlayerState(dir string) error {
	path, err := playerStatePath(dir)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "GOFRIDAY"
)

type Config struct {
	DataDir     string `mapstructure:"data_dir"`
	LogLevel    string `mapstructure:"log_level"`
	CatalogPath string `mapstructure:"catalog_path"`
	DevMode     bool   `mapstructure:"dev_mode"`

	Remote RemoteConfig `mapstructure:"remote"`
	Auth   AuthConfig   `mapstructure:"auth"`
}

type RemoteConfig struct {
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

type AuthConfig struct {
	UserID string `mapstructure:"user_id"`
}

// Returns the directory holding config, settings and local data.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gofriday"), nil
}

// Returns the path to the config file inside dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, configName+"."+configType)
}

// LoadConfig reads config.toml from dir, layering GOFRIDAY_* environment
// variables on top. A missing file is fine; every key has a default.
func LoadConfig(v *viper.Viper, dir string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	// .env is optional; it only supplies the remote credentials.
	_ = godotenv.Load()

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", dir)
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog_path", "")
	v.SetDefault("dev_mode", false)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.auth_token", "")
	v.SetDefault("auth.user_id", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Remote.URL == "" {
		cfg.Remote.URL = os.Getenv("TURSO_DATABASE_URL")
	}
	if cfg.Remote.AuthToken == "" {
		cfg.Remote.AuthToken = os.Getenv("TURSO_AUTH_TOKEN")
	}

	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		cfg.DevMode = true
	}

	if cfg.Auth.UserID == "" {
		session, err := LoadSession(dir)
		if err != nil {
			return nil, err
		}
		cfg.Auth.UserID = session.UserID
	}

	return &cfg, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) LocalDBPath() string {
	return filepath.Join(c.DataDir, "gofriday.db")
}

// DevRemotePath is the SQLite file standing in for the remote store in dev mode.
func (c *Config) DevRemotePath() string {
	return filepath.Join(c.DataDir, "remote-dev.db")
}

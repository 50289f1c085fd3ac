package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/analytics"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/catalog"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/config"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/progress"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/storage"
	"github.com/spf13/viper"
)

type app struct {
	dir      string
	cfg      *config.Config
	logger   *slog.Logger
	catalog  *catalog.Catalog
	settings config.Settings
	local    *storage.LocalStore
	remote   *storage.RemoteGateway
	service  *progress.Service
	emitter  *analytics.AsyncEmitter
}

func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return config.GetConfigDir()
}

func wireApp(ctx context.Context) (*app, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}

	cfg, err := config.LoadConfig(viper.New(), dir)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
	}

	settings, err := config.LoadSettings(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	local, err := storage.OpenLocal(cfg.LocalDBPath())
	if err != nil {
		return nil, err
	}

	a := &app{
		dir:      dir,
		cfg:      cfg,
		logger:   logger,
		catalog:  cat,
		settings: settings,
		local:    local,
	}

	// The remote is optional: without it everything still works locally.
	switch {
	case cfg.DevMode:
		a.remote, err = storage.OpenDevRemote(ctx, cfg.DevRemotePath())
	case cfg.Remote.URL != "":
		a.remote, err = storage.OpenTurso(ctx, cfg.Remote.URL, cfg.Remote.AuthToken)
	}
	if err != nil {
		logger.Warn("remote store unavailable, working offline", "err", err)
		a.remote = nil
	}

	var gateway progress.RemoteProfileGateway
	if a.remote != nil {
		gateway = a.remote
	}
	a.service = progress.NewService(local, gateway, progress.StaticIdentity(cfg.Auth.UserID), progress.SystemClock{},
		progress.WithLogger(logger),
	)
	a.emitter = analytics.NewAsyncEmitter(analytics.LogSink{Logger: logger}, analytics.DefaultBuffer, logger)

	return a, nil
}

func (a *app) Close() {
	a.emitter.Close()
	if a.remote != nil {
		a.remote.Close()
	}
	a.local.Close()
}

package main

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/dayroll/internal/clock"
	"github.com/sandeepkv93/dayroll/internal/config"
	"github.com/sandeepkv93/dayroll/internal/daily"
	"github.com/sandeepkv93/dayroll/internal/logging"
	"github.com/sandeepkv93/dayroll/internal/state"
	"github.com/sandeepkv93/dayroll/internal/storage"
	"github.com/sandeepkv93/dayroll/internal/tasks"
)

// app is everything one dayroll invocation needs, opened from config.
type app struct {
	cfg      config.Config
	logger   *log.Logger
	closeLog io.Closer
	store    storage.Store
	repo     *state.Repo
	tasks    *tasks.Store
	service  *daily.Service
	clock    clock.Clock
}

// openApp loads config and storage. The TUI logs to the configured file;
// CLI subcommands log to stderr.
func openApp(configPath string, tui bool, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		return nil, err
	}

	var (
		logger   *log.Logger
		closeLog io.Closer = io.NopCloser(nil)
	)
	if tui {
		logger, closeLog, err = logging.OpenFile(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
	} else {
		logger = logging.New(stderr, cfg.LogLevel)
	}

	store, err := storage.Open(cfg.Backend(), cfg.StorePath())
	if err != nil {
		_ = closeLog.Close()
		return nil, err
	}
	logger.Debug("store opened", "backend", cfg.Backend(), "path", cfg.StorePath())

	repo := state.NewRepo(store, logger)
	clk := clock.System{}
	return &app{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		store:    store,
		repo:     repo,
		tasks:    tasks.NewStore(repo),
		service:  daily.NewService(repo, clk, daily.Options{ReminderHour: cfg.ReminderHour, Logger: logger}),
		clock:    clk,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.closeLog.Close())
}

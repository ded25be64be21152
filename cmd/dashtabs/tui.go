package main

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
	"github.com/SimoKiihamaki/dashtabs/internal/prefs"
	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
	"github.com/SimoKiihamaki/dashtabs/internal/tui"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	loaded := loadConfig()
	cfg := loaded.Config

	logger := log.New(io.Discard)
	var logPath string
	session, err := tui.OpenSessionLog(cfg.LogLevel)
	if err != nil {
		log.Warn("session log unavailable", "err", err)
	} else {
		defer session.Close()
		logger = session.Logger
		logPath = session.Path
	}
	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}

	result := cfg.ValidateInterField()
	logIssues(logger, result)
	if errs := result.Errors(); len(errs) > 0 {
		return errors.New("invalid config: " + errs[0].String())
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := tui.Options{Logger: logger, LogPath: logPath}
	if cfg.PersistEnabled() {
		store, updates, err := openStore(ctx, cfg, logger)
		if err != nil {
			logger.Warn("tab selection will not survive restarts", "err", err)
		} else {
			opts.Store = store
			opts.Updates = updates
		}
	}

	m, err := tui.New(cfg, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// openStore opens the state file and, when sync_tabs is set, follows
// selections written by other sessions.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (tabs.Store, <-chan string, error) {
	path, err := cfg.StatePath()
	if err != nil {
		return nil, nil, err
	}
	store := prefs.Open(path, logger.WithPrefix("prefs"))
	logger.Debug("tab state file", "path", store.Path(), "sync", cfg.Persistence.SyncTabs)
	if !cfg.Persistence.SyncTabs {
		return store, nil, nil
	}

	key := cfg.Policy().StorageKey
	if key == "" {
		key = tabs.DefaultStorageKey
	}
	updates := make(chan string, 4)
	err = store.Watch(ctx, func(k, v string) {
		if k != key {
			return
		}
		select {
		case updates <- v:
		default:
			logger.Debug("dropping tab sync update", "tab", v)
		}
	})
	if err != nil {
		logger.Warn("tab sync disabled", "err", err)
		return store, nil, nil
	}
	return store, updates, nil
}

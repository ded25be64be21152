package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SimoKiihamaki/dashtabs/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		loaded := loadConfig()
		cfg := loaded.Config

		logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{ReportTimestamp: true, Prefix: "dashtabs"})
		if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(lvl)
		}
		for _, warning := range loaded.Warnings {
			logger.Warn(warning)
		}

		result := cfg.ValidateInterField()
		logIssues(logger, result)
		if errs := result.Errors(); len(errs) > 0 {
			return errors.New("invalid config: " + errs[0].String())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Run(ctx, cfg, logger)
	},
}

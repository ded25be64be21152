package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/SimoKiihamaki/dashtabs/internal/api"
	"github.com/SimoKiihamaki/dashtabs/internal/config"
)

func main() {
	cfg := config.Load()
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "dashtabs"})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	result := cfg.ValidateInterField()
	for _, issue := range result.Warnings() {
		logger.Warn("config", "field", issue.Field, "msg", issue.Message)
	}
	if errs := result.Errors(); len(errs) > 0 {
		logger.Fatal("invalid config", "field", errs[0].Field, "msg", errs[0].Message)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.Run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

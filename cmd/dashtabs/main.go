package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:          "dashtabs",
		Short:        "A tabbed portfolio dashboard for the terminal and the browser",
		Long:         "dashtabs shows the visual, metrics, compare and summary sections of a portfolio dashboard, one tab at a time.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runTUI,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.AddCommand(
		initCmd,
		serveCmd,
		validateCmd,
	)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config when given, the default location otherwise.
func loadConfig() config.LoadResult {
	if configPath != "" {
		return config.LoadFrom(configPath, nil)
	}
	return config.LoadWithWarnings()
}

func logIssues(logger *log.Logger, result config.ValidationResult) {
	for _, issue := range result.Issues {
		switch issue.Severity {
		case "error":
			logger.Error("config", "field", issue.Field, "msg", issue.Message)
		case "warning":
			logger.Warn("config", "field", issue.Field, "msg", issue.Message)
		default:
			logger.Info("config", "field", issue.Field, "msg", issue.Message)
		}
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and list any problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		loaded := loadConfig()
		out := cmd.OutOrStdout()
		for _, warning := range loaded.Warnings {
			fmt.Fprintf(out, "[warning] %s\n", warning)
		}

		result := loaded.Config.ValidateInterField()
		for _, issue := range result.Issues {
			fmt.Fprintf(out, "[%s] %s\n", issue.Severity, issue)
		}
		if errs := result.Errors(); len(errs) > 0 {
			return fmt.Errorf("config has %d error(s)", len(errs))
		}
		fmt.Fprintf(out, "config ok: %d tab(s), startup %s\n", len(loaded.Config.ActiveTabSpecs()), loaded.Config.Startup)
		return nil
	},
}

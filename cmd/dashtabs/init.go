package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
)

var (
	initPreset string
	initForce  bool

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a config file from a preset",
		Long:  "Write a config file from the full or lite preset. An existing file is only replaced with --force.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
)

func init() {
	initCmd.Flags().StringVar(&initPreset, "preset", config.PresetFull, "preset to write (full or lite)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "replace an existing config file")
}

func runInit(cmd *cobra.Command, _ []string) error {
	preset, ok := config.Preset(initPreset)
	if !ok {
		return fmt.Errorf("unknown preset %q", initPreset)
	}
	cfg := preset.Clone()

	target := configPath
	if target == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		target = p
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(target); err == nil {
		existing := config.LoadFrom(target, map[string]string{}).Config
		if existing.Equal(cfg) {
			fmt.Fprintf(out, "%s already matches the %s preset\n", target, cfg.Preset)
			return nil
		}
		if !initForce {
			return fmt.Errorf("%s already exists; use --force to replace it", target)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	var err error
	if configPath == "" {
		err = config.Save(cfg)
	} else {
		err = config.SaveTo(target, cfg, config.DefaultSaveTimeout)
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(out, "wrote %s preset to %s\n", cfg.Preset, target)
	return nil
}

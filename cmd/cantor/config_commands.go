package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cantor/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the cantor configuration",
		Long: `Create or check the cantor configuration.

The config file sets where song bundles and the catalog live (paths.data_dir,
paths.catalog_path) and tunes alignment, pitch cleanup, note bins, phrase
detection and scoring.`,
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample config",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				_, err := os.Stat(target)
				switch {
				case err == nil:
					return fmt.Errorf("%s already exists (pass --overwrite to replace it)", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("stat %s: %w", target, err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  1. Set paths.data_dir to the directory holding song bundles")
			fmt.Fprintln(out, "  2. Run `cantor preflight` to check the data directory and catalog")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the config (default: the standard config location)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config file")
	return cmd
}

// configTarget resolves the init destination, defaulting to the standard
// config location.
func configTarget(flagValue string) (string, error) {
	target := strings.TrimSpace(flagValue)
	if target == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return path, nil
	}
	path, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Parse the config, create its directories and print the resolved settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			writeConfigSummary(cmd.OutOrStdout(), cfg, resolved, exists)
			return nil
		},
	}
}

func writeConfigSummary(out io.Writer, cfg *config.Config, resolved string, exists bool) {
	source := resolved
	if !exists {
		source = resolved + " (not found, using defaults)"
	}
	workers := "all CPUs"
	if cfg.Scoring.Workers > 0 {
		workers = strconv.Itoa(cfg.Scoring.Workers)
	}
	fmt.Fprintln(out, renderKeyValues([][2]string{
		{"Config", source},
		{"Data dir", cfg.Paths.DataDir},
		{"Catalog", cfg.Paths.CatalogPath},
		{"Log level", cfg.Logging.Level},
		{"DTW band", formatPercent(cfg.Alignment.BandWidth)},
		{"Length ratio", formatFloat(cfg.Alignment.LengthRatio, 2)},
		{"Score workers", workers},
	}))
	fmt.Fprintln(out, "Configuration valid")
}

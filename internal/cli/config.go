package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"casefinder/internal/config"
)

func newConfigCmd(gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		Long: `Manage the casefinder configuration file.

Configuration precedence (lowest to highest):
  1. Built-in defaults
  2. Config file (--config, ./.casefinder.toml, or the user config dir)
  3. Environment variables (CASEFINDER_*, also read from .env)
  4. Command line flags`,
	}

	cmd.AddCommand(newConfigInitCmd(gopts))
	cmd.AddCommand(newConfigShowCmd(gopts))
	cmd.AddCommand(newConfigPathCmd(gopts))

	return cmd
}

func newConfigInitCmd(gopts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := gopts.configPath
			if path == "" {
				path = config.FileName
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			svc := config.NewConfigService(path)
			if err := svc.SaveToPath(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(gopts.configPath)
			if err != nil {
				return err
			}
			if cfg.Lookup.APIKey != "" {
				cfg.Lookup.APIKey = "********"
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd(gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.NewConfigService(gopts.configPath).Path())
			return nil
		},
	}
}

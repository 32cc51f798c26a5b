// Package cli provides the casefinder commands.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"casefinder/internal/config"
	"casefinder/internal/domain"
	"casefinder/internal/lookup"
	"casefinder/internal/selector"
)

// errReported is returned once a command has already told the user what
// went wrong; Execute only sets the exit status for it.
var errReported = errors.New("failure already reported")

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
}

// NewRootCmd creates the root command. Without a subcommand it runs the
// interactive search form.
func NewRootCmd() *cobra.Command {
	var gopts globalOptions
	var topts tuiOptions

	cmd := &cobra.Command{
		Use:   "casefinder",
		Short: "Find support cases by case number or case ID",
		Long: `casefinder is a terminal search form for support cases.

Pick a search mode (Case Number or Case ID), type an identifier and press
enter. The identifier is checked against the mode's format before it is sent
to the lookup service; the outcome is shown as a notification.

Configuration is read from .casefinder.toml in the working directory, or
from the user config directory. CASEFINDER_* environment variables (and a
.env file) override it.`,
		Example: `  # Search against a lookup service
  casefinder --lookup-url http://127.0.0.1:8080

  # Only validate identifiers
  casefinder --offline --mode Id`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), &gopts, topts)
		},
	}

	cmd.PersistentFlags().StringVarP(&gopts.configPath, "config", "c", "", "Config file (default .casefinder.toml, then the user config dir)")

	cmd.Flags().StringVar(&topts.lookupURL, "lookup-url", "", "Base URL of the lookup service (overrides lookup.url)")
	cmd.Flags().BoolVar(&topts.offline, "offline", false, "Validate identifiers without looking them up")
	cmd.Flags().StringVar(&topts.mode, "mode", "", "Initial search mode: CaseNumber or Id (overrides default_mode)")

	cmd.AddCommand(newLookupCmd(&gopts))
	cmd.AddCommand(newServeCmd(&gopts))
	cmd.AddCommand(newConfigCmd(&gopts))

	return cmd
}

// Execute runs the root command and prints any error not yet reported
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// loadConfig reads .env, the config file and the environment overrides
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.NewConfigService(path).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// parseMode checks a --mode flag value
func parseMode(v string) (domain.SearchType, error) {
	mode := domain.SearchType(v)
	if _, ok := selector.FindMode(selector.DefaultModes(), mode); !ok {
		return "", fmt.Errorf("unknown mode %q (want %s or %s)", v, domain.SearchByCaseNumber, domain.SearchByID)
	}
	return mode, nil
}

// newLookupService builds the HTTP lookup client, nil when no URL is configured
func newLookupService(cfg *config.Config, logger *zap.Logger) (lookup.Service, error) {
	if cfg.Lookup.URL == "" {
		return nil, nil
	}
	client, err := lookup.NewHTTPClient(lookup.ClientOptions{
		BaseURL:   cfg.Lookup.URL,
		APIKey:    cfg.Lookup.APIKey,
		Timeout:   cfg.Lookup.Timeout.Duration,
		RateLimit: cfg.Lookup.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"casefinder/internal/config"
	"casefinder/internal/domain"
	"casefinder/internal/logging"
	"casefinder/internal/notify"
	"casefinder/internal/selector"
	"casefinder/internal/ui/views"
)

type lookupOptions struct {
	mode      string
	lookupURL string
	asJSON    bool
}

// lookupOutput is what `lookup --json` prints
type lookupOutput struct {
	Identifier   string               `json:"identifier"`
	Mode         domain.SearchType    `json:"mode"`
	Valid        bool                 `json:"valid"`
	Error        string               `json:"error,omitempty"`
	Record       *domain.CaseRecord   `json:"record,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

func newLookupCmd(gopts *globalOptions) *cobra.Command {
	var opts lookupOptions

	cmd := &cobra.Command{
		Use:   "lookup <identifier>",
		Short: "Validate and look up a single case",
		Long: `Submit one identifier through the same validation and lookup path as the
interactive form, print the outcome and exit. The exit status is 1 when the
identifier is malformed or the case was not found.

Without a lookup URL the identifier is only validated.`,
		Example: `  casefinder lookup 10010010
  casefinder lookup --mode Id 500Ab00000abABCAB0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(gopts.configPath)
			if err != nil {
				return err
			}
			if opts.lookupURL != "" {
				cfg.Lookup.URL = opts.lookupURL
			}
			return runLookup(cmd.Context(), cmd.OutOrStdout(), cfg, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Search mode: CaseNumber or Id (default from config)")
	cmd.Flags().StringVar(&opts.lookupURL, "lookup-url", "", "Base URL of the lookup service (overrides lookup.url)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the outcome as JSON")

	return cmd
}

func runLookup(ctx context.Context, out io.Writer, cfg *config.Config, opts lookupOptions, identifier string) error {
	mode := cfg.DefaultMode
	if opts.mode != "" {
		var err error
		if mode, err = parseMode(opts.mode); err != nil {
			return err
		}
	}

	logger := zap.NewNop()
	if cfg.Log.File != "" {
		l, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()
		logger = l
	}

	svc, err := newLookupService(cfg, logger)
	if err != nil {
		return err
	}

	recorder := &notify.Recorder{}
	var notifier notify.Notifier = recorder
	if !opts.asJSON {
		writer := notify.NewWriterNotifier(out)
		notifier = notify.Func(func(n domain.Notification) {
			recorder.Notify(n)
			writer.Notify(n)
		})
	}

	selOpts := []selector.SelectorOption{
		selector.WithNotifier(notifier),
		selector.WithLogger(logger),
		selector.WithDefaultMode(mode),
		selector.WithContext(ctx),
	}
	if svc != nil {
		selOpts = append(selOpts, selector.WithLookup(svc))
	}
	sel := selector.New(nil, selOpts...)
	defer sel.Close()

	result := lookupOutput{Identifier: identifier, Mode: mode}
	failed := false

	sub := sel.Submit(identifier, selector.KeyEnter)
	result.Valid = sub.Valid
	switch {
	case !sub.Valid:
		result.Error = sel.InputErrorMessage()
		failed = true
	case sub.Request != nil:
		outcome := sel.Run(ctx, sub.Request)
		sel.HandleLookupResult(outcome)
		if outcome.Err != nil {
			result.Error = outcome.Err.Message
			failed = true
		}
		result.Record = sel.LastResult()
		if n, ok := recorder.Last(); ok {
			result.Notification = &n
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		printLookupText(out, sel, result, svc == nil)
	}

	if failed {
		return errReported
	}
	return nil
}

func printLookupText(out io.Writer, sel *selector.Selector, result lookupOutput, offline bool) {
	switch {
	case !result.Valid:
		fmt.Fprintln(out, result.Error)
	case offline:
		mode, _ := sel.Active()
		fmt.Fprintf(out, "%s is a valid %s\n", result.Identifier, mode.Label)
	case result.Record != nil:
		for _, f := range views.RecordFields(result.Record) {
			fmt.Fprintf(out, "  %-12s %s\n", f.Name, f.Value)
		}
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"casefinder/internal/caseapi"
	"casefinder/internal/casestore"
	"casefinder/internal/config"
	"casefinder/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	addr    string
	dbPath  string
	seed    bool
	apiKeys []string
}

func newServeCmd(gopts *globalOptions) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development case lookup service",
		Long: `Serve GET /api/cases/{searchType}/{identifier} from a local SQLite
database, with /health and Prometheus /metrics. Point the form at it with
--lookup-url or lookup.url.`,
		Example: `  casefinder serve --seed
  casefinder serve --addr :9000 --db /tmp/cases.db --api-key secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(gopts.configPath)
			if err != nil {
				return err
			}
			settings := cfg.Server
			if opts.addr != "" {
				settings.Addr = opts.addr
			}
			if opts.dbPath != "" {
				settings.DBPath = opts.dbPath
			}
			if len(opts.apiKeys) > 0 {
				settings.APIKeys = opts.apiKeys
			}

			logger, err := logging.New(logging.Options{Level: cfg.Log.Level})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, settings, opts.seed, logger, nil)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default server.addr)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database path, :memory: for a throwaway store (default server.db_path)")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Insert the demo cases before serving")
	cmd.Flags().StringSliceVar(&opts.apiKeys, "api-key", nil, "Accepted bearer token (repeatable; default server.api_keys)")

	return cmd
}

// runServe serves until ctx is done. onListen, when set, receives the bound
// address once the listener is up.
func runServe(ctx context.Context, settings config.ServerSettings, seed bool, logger *zap.Logger, onListen func(net.Addr)) error {
	store, err := casestore.Open(settings.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if seed {
		if err := store.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
		n, _ := store.Count(ctx)
		logger.Info("store seeded", zap.Int("cases", n))
	}

	ln, err := net.Listen("tcp", settings.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", settings.Addr, err)
	}

	srv := &http.Server{
		Handler:           caseapi.NewServer(store, settings.APIKeys, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("lookup service listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("db", settings.DBPath),
			zap.Bool("auth", len(settings.APIKeys) > 0))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if onListen != nil {
		onListen(ln.Addr())
	}
	return g.Wait()
}

package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"casefinder/internal/eventbus"
	"casefinder/internal/logging"
	"casefinder/internal/notify"
	"casefinder/internal/selector"
	"casefinder/internal/ui"
)

type tuiOptions struct {
	lookupURL string
	offline   bool
	mode      string
}

func runTUI(ctx context.Context, gopts *globalOptions, opts tuiOptions) error {
	cfg, err := loadConfig(gopts.configPath)
	if err != nil {
		return err
	}
	if opts.lookupURL != "" {
		cfg.Lookup.URL = opts.lookupURL
	}
	if opts.offline {
		cfg.Lookup.URL = ""
	}
	if opts.mode != "" {
		if cfg.DefaultMode, err = parseMode(opts.mode); err != nil {
			return err
		}
	}

	// The TUI owns the terminal, so logs always go to a file
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "casefinder.log"
	}
	logger, err := logging.New(logging.Options{File: logFile, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, err := newLookupService(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New(logger)
	defer bus.Close()

	selOpts := []selector.SelectorOption{
		selector.WithNotifier(notify.NewBusNotifier(bus)),
		selector.WithEventBus(bus),
		selector.WithLogger(logger),
		selector.WithDefaultMode(cfg.DefaultMode),
		selector.WithContext(ctx),
	}
	if svc != nil {
		selOpts = append(selOpts, selector.WithLookup(svc))
	}
	sel := selector.New(nil, selOpts...)
	defer sel.Close()

	model := ui.NewModel(sel, ui.Options{
		ToastDuration: cfg.UI.ToastDuration.Duration,
		Logger:        logger,
	})

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.UI.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, progOpts...)
	model.SetProgram(p)

	// Notifications reach the model from the bus dispatcher goroutine
	unsubscribe := bus.Subscribe(eventbus.EventNotificationRequested, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	defer unsubscribe()

	logger.Info("starting casefinder",
		zap.String("mode", string(cfg.DefaultMode)),
		zap.String("lookup_url", cfg.Lookup.URL),
		zap.Bool("offline", svc == nil))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			logger.Info("terminated by signal")
			return nil
		}
		return err
	}
	return nil
}

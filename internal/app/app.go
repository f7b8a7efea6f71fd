package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/specialistvlad/framekeeper/internal/ctxlog"
	"github.com/specialistvlad/framekeeper/internal/flow"
	"github.com/specialistvlad/framekeeper/internal/metrics"
	"github.com/specialistvlad/framekeeper/internal/registry"
	"github.com/specialistvlad/framekeeper/internal/taskqueue"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	metrics    *metrics.Metrics
	queue      *taskqueue.Queue
	httpServer *http.Server
	closers    []io.Closer
	frames     int
}

// NewApp is the constructor for the main application. It loads the flow,
// registers the given modules (or the built-in ones when none are given) and
// seeds the queue with the entry task tree.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logW, logCloser := logOutput(cfg.LogFile, outW)
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("session", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.", "log_file", cfg.LogFile)

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		metrics: metrics.New(),
	}
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}

	if err := a.init(ctx, modules); err != nil {
		return nil, errors.Join(err, a.Close())
	}
	return a, nil
}

func (a *App) init(ctx context.Context, modules []registry.Module) error {
	defs, err := flow.Load(ctx, a.config.FlowPath)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}
	entry, err := flow.Find(defs, a.config.Entry)
	if err != nil {
		return err
	}
	a.logger.Debug("Flow loaded.", "definitions", len(defs), "entry", entry.Name)

	if len(modules) == 0 {
		var closer io.Closer
		modules, closer, err = defaultModules(ctx, a.config)
		if err != nil {
			return err
		}
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}
	a.registry = registry.New()
	a.registry.RegisterModules(modules...)
	a.logger.Debug("All Go modules registered.", "count", len(modules), "handlers", a.registry.Names())

	root, err := flow.Build(entry, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build task tree: %w", err)
	}

	a.queue = taskqueue.New(taskqueue.WithLogger(a.logger), taskqueue.WithMetrics(a.metrics))
	if err := a.queue.Run(root); err != nil {
		return fmt.Errorf("failed to schedule entry task: %w", err)
	}
	return nil
}

// Queue returns the application's task queue. This is primarily for testing.
func (a *App) Queue() *taskqueue.Queue {
	return a.queue
}

// Registry returns the application's handler registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Frames returns the number of frames run so far.
func (a *App) Frames() int {
	return a.frames
}

// Close releases the queue and everything the app opened. It is safe to call
// more than once.
func (a *App) Close() error {
	if a.queue != nil {
		a.queue.Close()
		a.queue = nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

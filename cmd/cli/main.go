package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/framekeeper/internal/app"
	"github.com/specialistvlad/framekeeper/internal/cli"
	"github.com/specialistvlad/framekeeper/internal/registry"
)

// main is the entrypoint for the framekeeper application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	framekeeper, err := startApp(ctx, outW, appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := framekeeper.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return runApp(ctx, framekeeper)
}

// startApp builds the application. Handler modules panic on programmer errors
// such as a duplicate registration; those are reported as a startup failure.
func startApp(ctx context.Context, outW io.Writer, cfg *app.Config, modules ...registry.Module) (a *app.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	a, err = app.NewApp(ctx, outW, cfg, modules...)
	if err != nil {
		return nil, fmt.Errorf("application startup failed: %w", err)
	}
	return a, nil
}

// runApp runs the frame loop and turns a panicking task handler into an error.
func runApp(ctx context.Context, a *app.App) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application panicked at frame %d: %v", a.Frames(), r)
		}
	}()
	return a.Run(ctx)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/framekeeper/internal/ctxlog"
)

// ErrClosed is returned by Run on an app that has been closed.
var ErrClosed = errors.New("app is closed")

// Run drives the frame loop. Each frame calls Update once on the queue. The
// loop stops when a task calls Finish, when nothing is scheduled or suspended,
// after MaxFrames frames, or when ctx is cancelled; only a task error is
// returned.
func (a *App) Run(ctx context.Context) error {
	if a.queue == nil {
		return ErrClosed
	}
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	var tick <-chan time.Time
	if a.config.FrameRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(a.config.FrameRate))
		defer ticker.Stop()
		tick = ticker.C
	}

	a.logger.Info("🚀 Frame loop starting.", "fps", a.config.FrameRate, "max_frames", a.config.MaxFrames)
	for !a.queue.Finished() {
		if a.config.MaxFrames > 0 && a.frames >= a.config.MaxFrames {
			a.logger.Info("Frame limit reached.", "frames", a.frames)
			return nil
		}
		if a.queue.Idle() {
			a.logger.Warn("Task queue is idle, nothing left to run.", "frames", a.frames)
			return nil
		}

		select {
		case <-ctx.Done():
			a.logger.Info("Frame loop cancelled.", "frames", a.frames, "reason", context.Cause(ctx))
			return nil
		default:
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				a.logger.Info("Frame loop cancelled.", "frames", a.frames, "reason", context.Cause(ctx))
				return nil
			case <-tick:
			}
		}

		a.frames++
		a.logger.Debug("Frame", "frame", a.frames)
		if err := a.queue.Update(ctxlog.With(ctx, "frame", a.frames)); err != nil {
			return fmt.Errorf("frame %d: %w", a.frames, err)
		}
	}

	a.logger.Info("🏁 Frame loop finished.", "frames", a.frames)
	return nil
}

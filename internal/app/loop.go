package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"premarket-scan/internal/polygon"
)

// MinLoopInterval is the shortest wait between two passes.
const MinLoopInterval = 5 * time.Second

// SignalContext is canceled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// EffectiveInterval floors d at MinLoopInterval.
func EffectiveInterval(d time.Duration) time.Duration {
	return max(d, MinLoopInterval)
}

// RunLoop orchestrates the pass loop: run → wait → run, until ctx is done.
// A pass error stops the loop; cancellation is a clean stop.
func RunLoop(ctx context.Context, interval time.Duration, pass func(context.Context) error) error {
	interval = EffectiveInterval(interval)
	for {
		if err := pass(ctx); err != nil {
			if ctx.Err() != nil {
				slog.Info("received signal, stopping")
				return nil
			}
			return err
		}

		slog.Debug("pass done, wait until next run", "interval", interval)
		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			slog.Info("received signal, stopping")
			return nil
		}
	}
}

// ParsePremarketStart returns HH:MM New York time on now's New York date.
func ParsePremarketStart(hhmm string, now time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid premarket start %q (want HH:MM): %w", hhmm, err)
	}
	ny := now.In(polygon.NewYork())
	return time.Date(ny.Year(), ny.Month(), ny.Day(), t.Hour(), t.Minute(), 0, 0, polygon.NewYork()), nil
}

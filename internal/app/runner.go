package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"premarket-scan/internal/model"
	"premarket-scan/internal/observability"
	"premarket-scan/internal/report"
	"premarket-scan/internal/saver"
	"premarket-scan/internal/scan"
)

// PassFunc runs one scan pass.
type PassFunc func(ctx context.Context) ([]model.Row, scan.Stats, error)

// TableFunc sorts and formats the rows of a pass.
type TableFunc func(rows []model.Row) report.Table

// Runner prints, saves and records every pass.
type Runner struct {
	Out     io.Writer
	Format  string
	Saver   saver.PacketSaver
	SaveDir string
	Metrics *observability.Metrics
	Now     func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run executes one pass under a fresh run ID. With a save dir set, the rows
// are written as a snapshot and the skipped tickers as a run report; a failed
// write is logged only.
func (r *Runner) Run(ctx context.Context, mode string, pass PassFunc, table TableFunc) error {
	runID := uuid.NewString()
	log := slog.With("run_id", runID, "mode", mode)
	start := r.now()

	rows, stats, err := pass(ctx)
	r.Metrics.PassCompleted(mode, len(rows), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s pass: %w", mode, err)
	}
	log.Info("pass done", "tickers", stats.Tickers, "rows", stats.Rows, "skipped", stats.SkippedTotal(), "took", time.Since(start).Round(time.Millisecond))
	if len(stats.Failures) > 0 {
		log.Debug("skipped tickers", "detail", joinSkipReasons(stats.Failures))
	}

	t := table(rows)
	if r.SaveDir != "" && r.Saver != nil && len(rows) > 0 {
		path, err := saver.SaveSnapshot(r.Saver, r.SaveDir, mode, runID, saver.NewRecords(runID, mode, start, rows))
		if err != nil {
			log.Error("failed to save snapshot", "error", err)
		} else {
			log.Info("saved snapshot", "path", path, "rows", len(rows))
		}
	}
	if r.SaveDir != "" {
		if err := writeRunReport(r.SaveDir, mode, rows, stats.Failures); err != nil {
			log.Error("failed to write run report", "error", err)
		}
	}
	return report.Render(r.Out, r.Format, t)
}

// Movers prints the top n live gainers. A fetch failure is printed and the
// pass still succeeds so the loop keeps polling.
func (r *Runner) Movers(ctx context.Context, src scan.MoversSource, n int) error {
	start := r.now()
	movers, err := scan.TopMovers(ctx, src, n)
	r.Metrics.PassCompleted(scan.ModeMovers, len(movers), time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("movers fetch failed", "error", err)
		_, werr := fmt.Fprintf(r.Out, "Error fetching data: %v\n", err)
		return werr
	}
	return report.WriteMovers(r.Out, start, movers)
}

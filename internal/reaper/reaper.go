// Package reaper implements the periodic and on-demand sweep that
// removes expired, terminal-state jobs and their on-disk artifacts.
package reaper

import (
	"context"
	"log/slog"
	"time"
)

// JobManager is the subset of the job manager the reaper needs.
type JobManager interface {
	CollectExpired(maxAge time.Duration) []string
	RemoveJob(jobID string)
}

// FileCleaner removes a job's on-disk artifacts.
type FileCleaner interface {
	Cleanup(jobID string) error
}

// Reaper periodically sweeps expired jobs. It never lets a single
// failure stop future sweeps: on error it logs and continues to the
// next job.
type Reaper struct {
	manager  JobManager
	files    FileCleaner
	maxAge   time.Duration
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Reaper. interval governs the periodic background sweep
// cadence; maxAge is the job age (since CreatedAt) beyond which a
// terminal job becomes eligible for reaping.
func New(manager JobManager, files FileCleaner, interval, maxAge time.Duration, logger *slog.Logger) *Reaper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reaper{manager: manager, files: files, maxAge: maxAge, interval: interval, logger: logger}
}

// RunOnce runs a single sweep synchronously and returns the number of
// jobs removed. It backs the DELETE /cleanup endpoint as well as every
// periodic tick.
func (r *Reaper) RunOnce() int {
	ids := r.manager.CollectExpired(r.maxAge)
	removed := 0
	for _, id := range ids {
		if err := r.files.Cleanup(id); err != nil {
			r.logger.Warn("reaper: cleanup failed, continuing", slog.String("job_id", id), slog.Any("error", err))
			continue
		}
		r.manager.RemoveJob(id)
		removed++
	}
	return removed
}

// Run blocks, sweeping every interval until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := r.RunOnce()
			if removed > 0 {
				r.logger.Info("reaper: swept expired jobs", slog.Int("removed", removed))
			}
		}
	}
}

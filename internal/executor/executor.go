// Package executor drives a Job's processor to completion on a bounded
// worker pool, threading progress and terminal events back through the
// job manager. CPU-bound work is offloaded to a pool of size
// max(2, cpu_count/2), shared process-wide.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/maauso/mediajob-server/internal/metrics"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/storage"
)

// Registry is the subset of the processor registry the executor needs.
type Registry interface {
	Get(id string) (processor.Processor, error)
}

// FileStore is the subset of the file store the executor needs.
type FileStore interface {
	JobDir(jobID string) (string, error)
}

// JobManager is the subset of the job manager the executor drives a
// job's lifecycle through.
type JobManager interface {
	UpdateProgress(jobID string, percent float64, message string) error
	MarkCompleted(jobID, resultPath string) error
	MarkFailed(jobID, errMsg string) error
	Finish(jobID string) error
}

// Executor owns the process-wide worker pool and the collaborators
// needed to run a processor end to end: look it up, give it a scratch
// directory, forward its progress calls, and record the outcome.
type Executor struct {
	registry Registry
	files    FileStore
	manager  JobManager
	archiver storage.Archiver
	metrics  *metrics.Metrics
	pool     chan struct{}
	logger   *slog.Logger
}

// New builds an Executor whose worker pool holds at most poolSize
// concurrent Process calls, regardless of how many jobs are in flight.
func New(reg Registry, files FileStore, manager JobManager, archiver storage.Archiver, m *metrics.Metrics, poolSize int, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if poolSize < 1 {
		poolSize = 1
	}
	return &Executor{
		registry: reg,
		files:    files,
		manager:  manager,
		archiver: archiver,
		metrics:  m,
		pool:     make(chan struct{}, poolSize),
		logger:   logger,
	}
}

// Run executes jobID's processor to completion, then drives the job
// through MarkCompleted/MarkFailed and Finish. Callers launch this with
// `go` against a context built with context.WithoutCancel, so a client
// disconnect never interrupts processing — there is no client-initiated
// cancellation.
func (e *Executor) Run(ctx context.Context, jobID, processorID, inputPath string, inputPaths []string, opts map[string]any) {
	e.pool <- struct{}{}
	defer func() { <-e.pool }()

	e.metrics.ActiveJobs.Inc()
	defer e.metrics.ActiveJobs.Dec()

	start := time.Now()

	proc, err := e.registry.Get(processorID)
	if err != nil {
		e.fail(jobID, processorID, start, fmt.Errorf("executor: %w", err))
		return
	}

	outputDir, err := e.files.JobDir(jobID)
	if err != nil {
		e.fail(jobID, processorID, start, fmt.Errorf("executor: %w", err))
		return
	}

	onProgress := func(ctx context.Context, percent float64, message string) error {
		return e.manager.UpdateProgress(jobID, percent, message)
	}

	resultPath, procErr := proc.Process(ctx, inputPath, outputDir, onProgress, opts, inputPaths)
	if procErr != nil {
		e.fail(jobID, processorID, start, procErr)
		return
	}

	if err := e.manager.MarkCompleted(jobID, resultPath); err != nil {
		e.logger.Error("executor: mark completed failed",
			slog.String("job_id", jobID), slog.Any("error", err))
	}
	e.archiveResult(ctx, jobID, resultPath)
	if err := e.manager.Finish(jobID); err != nil {
		e.logger.Error("executor: finish failed",
			slog.String("job_id", jobID), slog.Any("error", err))
	}

	e.metrics.JobsCompleted.WithLabelValues(processorID).Inc()
	e.metrics.JobDuration.WithLabelValues(processorID, "completed").Observe(time.Since(start).Seconds())
	e.logger.Info("job completed",
		slog.String("job_id", jobID),
		slog.String("processor_id", processorID),
		slog.Duration("duration", time.Since(start)),
	)
}

func (e *Executor) fail(jobID, processorID string, start time.Time, procErr error) {
	if err := e.manager.MarkFailed(jobID, procErr.Error()); err != nil {
		e.logger.Error("executor: mark failed failed",
			slog.String("job_id", jobID), slog.Any("error", err))
	}
	if err := e.manager.Finish(jobID); err != nil {
		e.logger.Error("executor: finish failed",
			slog.String("job_id", jobID), slog.Any("error", err))
	}

	e.metrics.JobsFailed.WithLabelValues(processorID).Inc()
	e.metrics.JobDuration.WithLabelValues(processorID, "failed").Observe(time.Since(start).Seconds())
	e.logger.Error("job failed",
		slog.String("job_id", jobID),
		slog.String("processor_id", processorID),
		slog.Any("error", procErr),
	)
}

// archiveResult optionally uploads the completed result to S3. Purely
// additive: the local file remains the one the result endpoint serves,
// so a missing or failing archiver never affects the client-facing
// path.
func (e *Executor) archiveResult(ctx context.Context, jobID, resultPath string) {
	f, err := os.Open(resultPath) // #nosec G304 - resultPath is the processor's own output within its job directory
	if err != nil {
		e.logger.Warn("executor: could not open result for archival",
			slog.String("job_id", jobID), slog.Any("error", err))
		return
	}
	defer f.Close()

	key := fmt.Sprintf("results/%s%s", jobID, filepath.Ext(resultPath))
	if _, err := e.archiver.Archive(ctx, key, f); err != nil {
		if !errors.Is(err, storage.ErrNotConfigured) {
			e.logger.Warn("executor: archive upload failed",
				slog.String("job_id", jobID), slog.String("key", key), slog.Any("error", err))
		}
		return
	}
	e.logger.Info("executor: archived result",
		slog.String("job_id", jobID), slog.String("key", key))
}

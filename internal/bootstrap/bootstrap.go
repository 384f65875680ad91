// Package bootstrap wires every collaborator of the media-processing job
// server together: config, engines, registry, job manager, executor,
// reaper, metrics, and the HTTP router.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/maauso/mediajob-server/internal/bintools"
	"github.com/maauso/mediajob-server/internal/config"
	"github.com/maauso/mediajob-server/internal/executor"
	"github.com/maauso/mediajob-server/internal/filestore"
	"github.com/maauso/mediajob-server/internal/job"
	"github.com/maauso/mediajob-server/internal/metrics"
	"github.com/maauso/mediajob-server/internal/processors"
	"github.com/maauso/mediajob-server/internal/processors/bgremove"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
	"github.com/maauso/mediajob-server/internal/ratelimit"
	"github.com/maauso/mediajob-server/internal/reaper"
	"github.com/maauso/mediajob-server/internal/registry"
	"github.com/maauso/mediajob-server/internal/server"
	"github.com/maauso/mediajob-server/internal/storage"
)

// Dependencies holds every initialized collaborator the entrypoint needs
// to serve requests and run the background reaper.
type Dependencies struct {
	Router http.Handler
	Reaper *reaper.Reaper
	Logger *slog.Logger
}

// Build constructs the full dependency graph described by cfg.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	files, err := filestore.New(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	resolver := bintools.NewResolver(cfg.BinDir)

	ffmpeg, err := ffmpegengine.New(resolver)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: ffmpeg engine: %w", err)
	}
	image, err := imageengine.New(resolver)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: image engine: %w", err)
	}
	pdf, err := pdfengine.New(resolver)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: pdf engine: %w", err)
	}
	bg, err := bgremove.New(resolver)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: bg-remove engine: %w", err)
	}

	poolSize := cfg.EffectiveWorkerPoolSize()

	reg := registry.New()
	if err := processors.Register(reg, processors.Engines{
		FFmpeg:        ffmpeg,
		Image:         image,
		PDF:           pdf,
		BgRemove:      bg,
		FramePoolSize: poolSize,
	}); err != nil {
		return nil, fmt.Errorf("bootstrap: register processors: %w", err)
	}

	manager := job.NewManager(logger)

	var archiver storage.Archiver = storage.NoopArchiver{}
	if cfg.S3Enabled() {
		s3, err := storage.NewS3Archiver(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("bootstrap: s3 archiver: %w", err)
		}
		archiver = s3
		logger.Info("s3 archival configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
	} else {
		logger.Info("s3 archival disabled")
	}

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	exec := executor.New(reg, files, manager, archiver, m, poolSize, logger)

	rpr := reaper.New(manager, files,
		time.Duration(cfg.ReaperIntervalSec)*time.Second,
		time.Duration(cfg.JobExpirySec)*time.Second,
		logger,
	)

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)

	handlers := server.NewHandlers(manager, reg, files, exec, rpr, m, cfg.MaxUploadBytes,
		time.Duration(cfg.SSEHeartbeatSec)*time.Second, logger)

	router := server.NewRouter(handlers, logger, server.DefaultConfig(), limiter, promReg)

	return &Dependencies{
		Router: router,
		Reaper: rpr,
		Logger: logger,
	}, nil
}

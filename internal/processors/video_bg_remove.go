package processors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/bgremove"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// VideoBgRemove removes the background from every frame of a video,
// driving bounded per-job frame parallelism: one sub-task per extracted
// frame, dispatched through a semaphore sized to the worker pool so a
// single long video cannot starve other jobs.
type VideoBgRemove struct {
	ffmpeg   *ffmpegengine.Engine
	bg       *bgremove.Engine
	poolSize int
}

// NewVideoBgRemove wires a VideoBgRemove processor onto the given
// engines, bounding frame-level parallelism to poolSize.
func NewVideoBgRemove(ffmpeg *ffmpegengine.Engine, bg *bgremove.Engine, poolSize int) *VideoBgRemove {
	return &VideoBgRemove{ffmpeg: ffmpeg, bg: bg, poolSize: poolSize}
}

func (p *VideoBgRemove) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "video-bg-remove",
		Label:              "Remove video background",
		Description:        "Remove the background from every frame of a video using an AI model.",
		AcceptedExtensions: []string{".mp4", ".mov", ".webm", ".avi", ".mkv"},
		OptionsSchema: []options.Def{
			{ID: "fps", Label: "Sample rate (fps)", Type: options.TypeNumber, Default: float64(24), Min: ptr(1), Max: ptr(60)},
		},
	}
}

func (p *VideoBgRemove) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}

	fps := intOpt(opts, "fps", 24)

	rawFrames := filepath.Join(outputDir, "frames-raw")
	matteFrames := filepath.Join(outputDir, "frames-matte")
	if err := os.MkdirAll(rawFrames, 0o750); err != nil {
		return "", fmt.Errorf("video-bg-remove: %w", err)
	}
	if err := os.MkdirAll(matteFrames, 0o750); err != nil {
		return "", fmt.Errorf("video-bg-remove: %w", err)
	}

	if err := onProgress(ctx, 5, "extracting frames"); err != nil {
		return "", err
	}
	if err := p.ffmpeg.ExtractFrames(ctx, input, rawFrames, fps); err != nil {
		return "", fmt.Errorf("video-bg-remove: extract frames: %w", err)
	}

	entries, err := os.ReadDir(rawFrames)
	if err != nil {
		return "", fmt.Errorf("video-bg-remove: list frames: %w", err)
	}

	var tasks []bgremove.FrameTask
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		tasks = append(tasks, bgremove.FrameTask{
			SrcPath: filepath.Join(rawFrames, entry.Name()),
			DstPath: filepath.Join(matteFrames, entry.Name()),
		})
	}
	if len(tasks) == 0 {
		return "", fmt.Errorf("video-bg-remove: no frames extracted")
	}

	if err := onProgress(ctx, 15, fmt.Sprintf("removing background from %d frames", len(tasks))); err != nil {
		return "", err
	}

	lastReported := 15.0
	err = p.bg.RemoveBackgroundFromFrames(ctx, tasks, p.poolSize, func(done, total int) {
		percent := 15 + (float64(done)/float64(total))*70
		if percent-lastReported < 2 && done != total {
			return
		}
		lastReported = percent
		_ = onProgress(ctx, percent, fmt.Sprintf("processed %d/%d frames", done, total))
	})
	if err != nil {
		return "", fmt.Errorf("video-bg-remove: %w", err)
	}

	if err := onProgress(ctx, 90, "reassembling video"); err != nil {
		return "", err
	}

	result := filepath.Join(outputDir, "result.webm")
	if err := p.ffmpeg.AssembleFrames(ctx, matteFrames, result, fps); err != nil {
		return "", fmt.Errorf("video-bg-remove: assemble frames: %w", err)
	}

	if err := onProgress(ctx, 100, "background removal complete"); err != nil {
		return "", err
	}
	return result, nil
}

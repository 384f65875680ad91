package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// VideoTrim cuts a sub-range out of a video.
type VideoTrim struct {
	engine *ffmpegengine.Engine
}

// NewVideoTrim wires a VideoTrim processor onto engine.
func NewVideoTrim(engine *ffmpegengine.Engine) *VideoTrim {
	return &VideoTrim{engine: engine}
}

func (p *VideoTrim) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "video-trim",
		Label:              "Trim video",
		Description:        "Cut a start/duration range out of a video.",
		AcceptedExtensions: []string{".mp4", ".mov", ".webm", ".avi", ".mkv"},
		OptionsSchema: []options.Def{
			{ID: "start_sec", Label: "Start (seconds)", Type: options.TypeNumber, Default: float64(0)},
			{ID: "duration_sec", Label: "Duration (seconds)", Type: options.TypeNumber, Default: float64(10)},
		},
	}
}

func (p *VideoTrim) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 5, "starting trim"); err != nil {
		return "", err
	}

	start := floatOpt(opts, "start_sec", 0)
	duration := floatOpt(opts, "duration_sec", 10)
	if duration <= 0 {
		return "", fmt.Errorf("video-trim: duration_sec must be positive")
	}

	result := filepath.Join(outputDir, "result"+filepath.Ext(input))
	if err := p.engine.Trim(ctx, input, result, start, duration); err != nil {
		return "", fmt.Errorf("video-trim: %w", err)
	}

	if err := onProgress(ctx, 100, "trim complete"); err != nil {
		return "", err
	}
	return result, nil
}

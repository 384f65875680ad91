package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// VideoThumbnail extracts a single still frame from a video.
type VideoThumbnail struct {
	engine *ffmpegengine.Engine
}

// NewVideoThumbnail wires a VideoThumbnail processor onto engine.
func NewVideoThumbnail(engine *ffmpegengine.Engine) *VideoThumbnail {
	return &VideoThumbnail{engine: engine}
}

func (p *VideoThumbnail) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "video-thumbnail",
		Label:              "Video thumbnail",
		Description:        "Extract a still frame from a video at a given timestamp.",
		AcceptedExtensions: []string{".mp4", ".mov", ".webm", ".avi", ".mkv"},
		OptionsSchema: []options.Def{
			{ID: "at_sec", Label: "Timestamp (seconds)", Type: options.TypeNumber, Default: float64(1)},
			{ID: "format", Label: "Image format", Type: options.TypeSelect, Default: "jpg", Choices: []options.Choice{
				{Value: "jpg", Label: "JPEG"},
				{Value: "png", Label: "PNG"},
			}},
		},
	}
}

func (p *VideoThumbnail) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 10, "seeking to timestamp"); err != nil {
		return "", err
	}

	at := floatOpt(opts, "at_sec", 1)
	format := stringOpt(opts, "format", "jpg")
	result := filepath.Join(outputDir, "result."+format)

	if err := p.engine.Thumbnail(ctx, input, result, at); err != nil {
		return "", fmt.Errorf("video-thumbnail: %w", err)
	}

	if err := onProgress(ctx, 100, "thumbnail ready"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// VideoToGIF converts a video segment into an animated GIF.
type VideoToGIF struct {
	engine *ffmpegengine.Engine
}

// NewVideoToGIF wires a VideoToGIF processor onto engine.
func NewVideoToGIF(engine *ffmpegengine.Engine) *VideoToGIF {
	return &VideoToGIF{engine: engine}
}

func (p *VideoToGIF) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "video-to-gif",
		Label:              "Video to GIF",
		Description:        "Convert a video (or clip of one) to an animated GIF.",
		AcceptedExtensions: []string{".mp4", ".mov", ".webm", ".avi", ".mkv"},
		OptionsSchema: []options.Def{
			{ID: "resolution", Label: "Width", Type: options.TypeDimension, Min: ptr(64), Max: ptr(1920), AllowOriginal: true, Default: "original"},
			{ID: "fps", Label: "Frame rate", Type: options.TypeNumber, Default: float64(15), Min: ptr(1), Max: ptr(30)},
		},
	}
}

func (p *VideoToGIF) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 5, "starting gif conversion"); err != nil {
		return "", err
	}

	width := dimensionOpt(opts, "resolution", -1)
	fps := intOpt(opts, "fps", 15)
	result := filepath.Join(outputDir, "result.gif")

	if err := p.engine.ToGIF(ctx, input, result, width, fps); err != nil {
		return "", fmt.Errorf("video-to-gif: %w", err)
	}

	if err := onProgress(ctx, 100, "gif ready"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// VideoCompress re-encodes a video at a lower bitrate/CRF. The
// resolution option is validated but not applied: the output keeps the
// source frame size.
type VideoCompress struct {
	engine *ffmpegengine.Engine
}

// NewVideoCompress wires a VideoCompress processor onto engine.
func NewVideoCompress(engine *ffmpegengine.Engine) *VideoCompress {
	return &VideoCompress{engine: engine}
}

func (p *VideoCompress) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "video-compress",
		Label:              "Compress video",
		Description:        "Reduce video file size by re-encoding at a target quality.",
		AcceptedExtensions: []string{".mp4", ".mov", ".webm", ".avi", ".mkv"},
		OptionsSchema: []options.Def{
			{ID: "quality", Label: "Quality (CRF)", Type: options.TypeNumber, Default: float64(28), Min: ptr(18), Max: ptr(35)},
			{ID: "resolution", Label: "Max height", Type: options.TypeDimension, Min: ptr(144), Max: ptr(2160), AllowOriginal: true, Default: "original"},
		},
	}
}

func (p *VideoCompress) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 5, "starting compression"); err != nil {
		return "", err
	}

	crf := intOpt(opts, "quality", 28)
	result := filepath.Join(outputDir, "result.mp4")

	if err := p.engine.Compress(ctx, input, result, crf); err != nil {
		return "", fmt.Errorf("video-compress: %w", err)
	}

	if err := onProgress(ctx, 100, "compression complete"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// VideoConvert transcodes a video into a target container/codec.
type VideoConvert struct {
	engine *ffmpegengine.Engine
}

// NewVideoConvert wires a VideoConvert processor onto engine.
func NewVideoConvert(engine *ffmpegengine.Engine) *VideoConvert {
	return &VideoConvert{engine: engine}
}

func (p *VideoConvert) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "video-convert",
		Label:              "Convert video",
		Description:        "Transcode a video into a different container/codec.",
		AcceptedExtensions: []string{".mp4", ".mov", ".webm", ".avi", ".mkv"},
		OptionsSchema: []options.Def{
			{ID: "format", Label: "Output format", Type: options.TypeSelect, Default: "mp4", Choices: []options.Choice{
				{Value: "mp4", Label: "MP4"},
				{Value: "webm", Label: "WebM"},
				{Value: "mov", Label: "QuickTime"},
			}},
		},
	}
}

func (p *VideoConvert) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 5, "starting conversion"); err != nil {
		return "", err
	}

	format := stringOpt(opts, "format", "mp4")
	result := filepath.Join(outputDir, "result."+format)

	if err := p.engine.Transcode(ctx, input, result); err != nil {
		return "", fmt.Errorf("video-convert: %w", err)
	}

	if err := onProgress(ctx, 100, "conversion complete"); err != nil {
		return "", err
	}
	return result, nil
}

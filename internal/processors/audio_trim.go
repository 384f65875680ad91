package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// AudioTrim cuts a sub-range out of an audio file.
type AudioTrim struct {
	engine *ffmpegengine.Engine
}

// NewAudioTrim wires an AudioTrim processor onto engine.
func NewAudioTrim(engine *ffmpegengine.Engine) *AudioTrim {
	return &AudioTrim{engine: engine}
}

func (p *AudioTrim) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "audio-trim",
		Label:              "Trim audio",
		Description:        "Cut a start/duration range out of an audio file.",
		AcceptedExtensions: []string{".mp3", ".aac", ".wav", ".flac", ".ogg", ".m4a", ".wma"},
		OptionsSchema: []options.Def{
			{ID: "start_sec", Label: "Start (seconds)", Type: options.TypeNumber, Default: float64(0)},
			{ID: "duration_sec", Label: "Duration (seconds)", Type: options.TypeNumber, Default: float64(10)},
		},
	}
}

func (p *AudioTrim) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
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
		return "", fmt.Errorf("audio-trim: duration_sec must be positive")
	}

	result := filepath.Join(outputDir, "result"+filepath.Ext(input))
	if err := p.engine.Trim(ctx, input, result, start, duration); err != nil {
		return "", fmt.Errorf("audio-trim: %w", err)
	}

	if err := onProgress(ctx, 100, "trim complete"); err != nil {
		return "", err
	}
	return result, nil
}

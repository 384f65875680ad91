package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// AudioExtract demuxes the audio track out of a video.
type AudioExtract struct {
	engine *ffmpegengine.Engine
}

// NewAudioExtract wires an AudioExtract processor onto engine.
func NewAudioExtract(engine *ffmpegengine.Engine) *AudioExtract {
	return &AudioExtract{engine: engine}
}

func (p *AudioExtract) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "audio-extract",
		Label:              "Extract audio",
		Description:        "Pull the audio track out of a video file.",
		AcceptedExtensions: []string{".mp4", ".mov", ".webm", ".avi", ".mkv"},
		OptionsSchema: []options.Def{
			{ID: "format", Label: "Output format", Type: options.TypeSelect, Default: "mp3", Choices: []options.Choice{
				{Value: "mp3", Label: "MP3"},
				{Value: "aac", Label: "AAC"},
				{Value: "wav", Label: "WAV"},
			}},
		},
	}
}

func (p *AudioExtract) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 5, "extracting audio"); err != nil {
		return "", err
	}

	format := stringOpt(opts, "format", "mp3")
	result := filepath.Join(outputDir, "result."+format)

	if err := p.engine.ExtractAudio(ctx, input, result); err != nil {
		return "", fmt.Errorf("audio-extract: %w", err)
	}

	if err := onProgress(ctx, 100, "audio ready"); err != nil {
		return "", err
	}
	return result, nil
}

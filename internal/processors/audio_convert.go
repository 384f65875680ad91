package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

// AudioConvert transcodes an audio file into a different format.
type AudioConvert struct {
	engine *ffmpegengine.Engine
}

// NewAudioConvert wires an AudioConvert processor onto engine.
func NewAudioConvert(engine *ffmpegengine.Engine) *AudioConvert {
	return &AudioConvert{engine: engine}
}

func (p *AudioConvert) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "audio-convert",
		Label:              "Convert audio",
		Description:        "Transcode an audio file into a different format.",
		AcceptedExtensions: []string{".mp3", ".aac", ".wav", ".flac", ".ogg", ".m4a", ".wma"},
		OptionsSchema: []options.Def{
			{ID: "format", Label: "Output format", Type: options.TypeSelect, Default: "mp3", Choices: []options.Choice{
				{Value: "mp3", Label: "MP3"},
				{Value: "aac", Label: "AAC"},
				{Value: "wav", Label: "WAV"},
				{Value: "flac", Label: "FLAC"},
				{Value: "ogg", Label: "OGG"},
			}},
		},
	}
}

func (p *AudioConvert) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 5, "starting conversion"); err != nil {
		return "", err
	}

	format := stringOpt(opts, "format", "mp3")
	result := filepath.Join(outputDir, "result."+format)

	if err := p.engine.Transcode(ctx, input, result); err != nil {
		return "", fmt.Errorf("audio-convert: %w", err)
	}

	if err := onProgress(ctx, 100, "conversion complete"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
)

// ImageConvert transcodes an image into a different format, optionally
// resizing.
type ImageConvert struct {
	engine *imageengine.Engine
}

// NewImageConvert wires an ImageConvert processor onto engine.
func NewImageConvert(engine *imageengine.Engine) *ImageConvert {
	return &ImageConvert{engine: engine}
}

func (p *ImageConvert) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "image-convert",
		Label:              "Convert image",
		Description:        "Convert an image to a different format, with optional resize and quality.",
		AcceptedExtensions: []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff", ".gif"},
		OptionsSchema: []options.Def{
			{ID: "format", Label: "Output format", Type: options.TypeSelect, Default: "jpg", Choices: []options.Choice{
				{Value: "jpg", Label: "JPEG"},
				{Value: "png", Label: "PNG"},
				{Value: "webp", Label: "WebP"},
			}},
			{ID: "quality", Label: "Quality", Type: options.TypeNumber, Default: float64(85), Min: ptr(1), Max: ptr(100)},
			{ID: "resize", Label: "Max dimension", Type: options.TypeDimension, Min: ptr(16), Max: ptr(8192), AllowOriginal: true, Default: "original"},
		},
	}
}

func (p *ImageConvert) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 10, "starting conversion"); err != nil {
		return "", err
	}

	format := stringOpt(opts, "format", "jpg")
	quality := intOpt(opts, "quality", 85)
	result := filepath.Join(outputDir, "result."+format)

	if resizeVal, present := opts["resize"]; present && resizeVal != "original" {
		dim := dimensionOpt(opts, "resize", 0)
		resized := filepath.Join(outputDir, "resized"+filepath.Ext(input))
		if err := p.engine.Resize(ctx, input, resized, dim, dim); err != nil {
			return "", fmt.Errorf("image-convert: resize: %w", err)
		}
		input = resized
	}
	if err := p.engine.Convert(ctx, input, result, quality); err != nil {
		return "", fmt.Errorf("image-convert: %w", err)
	}

	if err := onProgress(ctx, 100, "conversion complete"); err != nil {
		return "", err
	}
	return result, nil
}

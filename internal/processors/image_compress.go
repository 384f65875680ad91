package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
)

// ImageCompress re-encodes an image at a lower quality tier, optionally
// downscaling.
type ImageCompress struct {
	engine *imageengine.Engine
}

// NewImageCompress wires an ImageCompress processor onto engine.
func NewImageCompress(engine *imageengine.Engine) *ImageCompress {
	return &ImageCompress{engine: engine}
}

func (p *ImageCompress) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "image-compress",
		Label:              "Compress image",
		Description:        "Reduce image file size via quality and/or resolution reduction.",
		AcceptedExtensions: []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff"},
		OptionsSchema: []options.Def{
			{ID: "quality", Label: "Quality", Type: options.TypeNumber, Default: float64(70), Min: ptr(1), Max: ptr(100)},
			{ID: "resize", Label: "Max dimension", Type: options.TypeDimension, Min: ptr(16), Max: ptr(8192), AllowOriginal: true, Default: "original"},
		},
	}
}

func (p *ImageCompress) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 10, "starting compression"); err != nil {
		return "", err
	}

	quality := intOpt(opts, "quality", 70)
	result := filepath.Join(outputDir, "result"+filepath.Ext(input))

	if resizeVal, present := opts["resize"]; present && resizeVal != "original" {
		dim := dimensionOpt(opts, "resize", 0)
		resized := filepath.Join(outputDir, "resized"+filepath.Ext(input))
		if err := p.engine.Resize(ctx, input, resized, dim, dim); err != nil {
			return "", fmt.Errorf("image-compress: resize: %w", err)
		}
		input = resized
	}
	if err := p.engine.Convert(ctx, input, result, quality); err != nil {
		return "", fmt.Errorf("image-compress: %w", err)
	}

	if err := onProgress(ctx, 100, "compression complete"); err != nil {
		return "", err
	}
	return result, nil
}

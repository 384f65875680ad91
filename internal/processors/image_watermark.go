package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
)

// ImageWatermark composites a second uploaded image onto the first as a
// watermark (a combining processor: it needs both files).
type ImageWatermark struct {
	engine *imageengine.Engine
}

// NewImageWatermark wires an ImageWatermark processor onto engine.
func NewImageWatermark(engine *imageengine.Engine) *ImageWatermark {
	return &ImageWatermark{engine: engine}
}

func (p *ImageWatermark) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                   "image-watermark",
		Label:                "Watermark image",
		Description:          "Composite a watermark image onto a base image.",
		AcceptedExtensions:   []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff"},
		AcceptsMultipleFiles: true,
		OptionsSchema: []options.Def{
			{ID: "gravity", Label: "Position", Type: options.TypeSelect, Default: "SouthEast", Choices: []options.Choice{
				{Value: "NorthWest", Label: "Top left"},
				{Value: "NorthEast", Label: "Top right"},
				{Value: "SouthWest", Label: "Bottom left"},
				{Value: "SouthEast", Label: "Bottom right"},
				{Value: "Center", Label: "Center"},
			}},
		},
	}
}

func (p *ImageWatermark) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	if len(inputPaths) < 2 {
		return "", fmt.Errorf("image-watermark: requires a base image and a watermark image")
	}
	base, overlay := inputPaths[0], inputPaths[1]

	if err := onProgress(ctx, 20, "compositing watermark"); err != nil {
		return "", err
	}

	gravity := stringOpt(opts, "gravity", "SouthEast")
	result := filepath.Join(outputDir, "result"+filepath.Ext(base))

	if err := p.engine.Watermark(ctx, base, overlay, result, gravity); err != nil {
		return "", fmt.Errorf("image-watermark: %w", err)
	}

	if err := onProgress(ctx, 100, "watermark applied"); err != nil {
		return "", err
	}
	return result, nil
}

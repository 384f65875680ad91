package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/bgremove"
)

// ImageBgRemove removes the background from a single image using an AI
// model.
type ImageBgRemove struct {
	engine *bgremove.Engine
}

// NewImageBgRemove wires an ImageBgRemove processor onto engine.
func NewImageBgRemove(engine *bgremove.Engine) *ImageBgRemove {
	return &ImageBgRemove{engine: engine}
}

func (p *ImageBgRemove) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "image-bg-remove",
		Label:              "Remove image background",
		Description:        "Remove the background from an image using an AI model, producing a transparent PNG.",
		AcceptedExtensions: []string{".png", ".jpg", ".jpeg", ".webp", ".bmp"},
	}
}

func (p *ImageBgRemove) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 10, "removing background"); err != nil {
		return "", err
	}

	result := filepath.Join(outputDir, "result.png")
	if err := p.engine.RemoveBackground(ctx, input, result); err != nil {
		return "", fmt.Errorf("image-bg-remove: %w", err)
	}

	if err := onProgress(ctx, 100, "background removed"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
)

// ImageToPDF wraps one or more images into a single PDF, one page per
// image in submission order (a combining processor).
type ImageToPDF struct {
	engine *imageengine.Engine
}

// NewImageToPDF wires an ImageToPDF processor onto engine.
func NewImageToPDF(engine *imageengine.Engine) *ImageToPDF {
	return &ImageToPDF{engine: engine}
}

func (p *ImageToPDF) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                   "image-to-pdf",
		Label:                "Images to PDF",
		Description:          "Combine one or more images into a single PDF, one page per image.",
		AcceptedExtensions:   []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff"},
		AcceptsMultipleFiles: true,
	}
}

func (p *ImageToPDF) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	if len(inputPaths) == 0 {
		inputPaths = []string{inputPath}
	}
	if err := onProgress(ctx, 10, fmt.Sprintf("combining %d images", len(inputPaths))); err != nil {
		return "", err
	}

	result := filepath.Join(outputDir, "result.pdf")
	if err := p.engine.ToPDF(ctx, inputPaths, result); err != nil {
		return "", fmt.Errorf("image-to-pdf: %w", err)
	}

	if err := onProgress(ctx, 100, "pdf ready"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfToImage rasterizes every page of a PDF into a PNG, returned as a
// zip archive (the multi-output-processor case, same as PdfSplit).
type PdfToImage struct {
	engine *pdfengine.Engine
}

// NewPdfToImage wires a PdfToImage processor onto engine.
func NewPdfToImage(engine *pdfengine.Engine) *PdfToImage {
	return &PdfToImage{engine: engine}
}

func (p *PdfToImage) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-to-image",
		Label:              "Convert PDF to images",
		Description:        "Rasterize every page of a PDF into a PNG, returned as a zip archive.",
		AcceptedExtensions: []string{".pdf"},
		OptionsSchema: []options.Def{
			{ID: "dpi", Label: "Resolution (DPI)", Type: options.TypeNumber, Default: 150, Min: ptr(72), Max: ptr(600)},
		},
	}
}

func (p *PdfToImage) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 15, "rasterizing pages"); err != nil {
		return "", err
	}

	dpi := intOpt(opts, "dpi", 150)
	pagesDir := filepath.Join(outputDir, "pages")
	if err := os.MkdirAll(pagesDir, 0o750); err != nil {
		return "", fmt.Errorf("pdf-to-image: %w", err)
	}
	if err := p.engine.ToImages(ctx, input, pagesDir, dpi); err != nil {
		return "", fmt.Errorf("pdf-to-image: %w", err)
	}

	if err := onProgress(ctx, 85, "archiving pages"); err != nil {
		return "", err
	}
	result := filepath.Join(outputDir, "result.zip")
	if err := zipDir(pagesDir, result); err != nil {
		return "", fmt.Errorf("pdf-to-image: %w", err)
	}

	if err := onProgress(ctx, 100, "conversion complete"); err != nil {
		return "", err
	}
	return result, nil
}

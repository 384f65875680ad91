package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfCompress shrinks a PDF via object-stream compression and
// linearization.
type PdfCompress struct {
	engine *pdfengine.Engine
}

// NewPdfCompress wires a PdfCompress processor onto engine.
func NewPdfCompress(engine *pdfengine.Engine) *PdfCompress {
	return &PdfCompress{engine: engine}
}

func (p *PdfCompress) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-compress",
		Label:              "Compress PDF",
		Description:        "Reduce PDF file size via object-stream compression and linearization.",
		AcceptedExtensions: []string{".pdf"},
	}
}

func (p *PdfCompress) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 15, "compressing"); err != nil {
		return "", err
	}

	result := filepath.Join(outputDir, "result.pdf")
	if err := p.engine.Compress(ctx, input, result); err != nil {
		return "", fmt.Errorf("pdf-compress: %w", err)
	}

	if err := onProgress(ctx, 100, "compression complete"); err != nil {
		return "", err
	}
	return result, nil
}

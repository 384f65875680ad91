package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfExtractText pulls the plain-text content out of a PDF.
type PdfExtractText struct {
	engine *pdfengine.Engine
}

// NewPdfExtractText wires a PdfExtractText processor onto engine.
func NewPdfExtractText(engine *pdfengine.Engine) *PdfExtractText {
	return &PdfExtractText{engine: engine}
}

func (p *PdfExtractText) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-extract-text",
		Label:              "Extract text",
		Description:        "Pull the plain-text content out of a PDF.",
		AcceptedExtensions: []string{".pdf"},
	}
}

func (p *PdfExtractText) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 20, "extracting text"); err != nil {
		return "", err
	}

	result := filepath.Join(outputDir, "result.txt")
	if err := p.engine.ExtractText(ctx, input, result); err != nil {
		return "", fmt.Errorf("pdf-extract-text: %w", err)
	}

	if err := onProgress(ctx, 100, "extraction complete"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfSplit breaks a PDF into one single-page PDF per page, returned as
// a zip archive (the contract's "multi-output processor" case).
type PdfSplit struct {
	engine *pdfengine.Engine
}

// NewPdfSplit wires a PdfSplit processor onto engine.
func NewPdfSplit(engine *pdfengine.Engine) *PdfSplit {
	return &PdfSplit{engine: engine}
}

func (p *PdfSplit) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-split",
		Label:              "Split PDF",
		Description:        "Split a PDF into one single-page PDF per page, returned as a zip archive.",
		AcceptedExtensions: []string{".pdf"},
	}
}

func (p *PdfSplit) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 10, "counting pages"); err != nil {
		return "", err
	}

	count, err := p.engine.PageCount(ctx, input)
	if err != nil {
		return "", fmt.Errorf("pdf-split: %w", err)
	}

	pagesDir := filepath.Join(outputDir, "pages")
	if err := os.MkdirAll(pagesDir, 0o750); err != nil {
		return "", fmt.Errorf("pdf-split: %w", err)
	}

	if err := onProgress(ctx, 20, fmt.Sprintf("splitting %d pages", count)); err != nil {
		return "", err
	}
	if err := p.engine.Split(ctx, input, pagesDir, count); err != nil {
		return "", fmt.Errorf("pdf-split: %w", err)
	}

	if err := onProgress(ctx, 90, "archiving pages"); err != nil {
		return "", err
	}
	result := filepath.Join(outputDir, "result.zip")
	if err := zipDir(pagesDir, result); err != nil {
		return "", fmt.Errorf("pdf-split: %w", err)
	}

	if err := onProgress(ctx, 100, "split complete"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfMerge concatenates every submitted PDF into one, in submission
// order. It is the catalog's canonical AcceptsMultipleFiles processor,
// driving one Job over the whole submitted set instead of one per file.
type PdfMerge struct {
	engine *pdfengine.Engine
}

// NewPdfMerge wires a PdfMerge processor onto engine.
func NewPdfMerge(engine *pdfengine.Engine) *PdfMerge {
	return &PdfMerge{engine: engine}
}

func (p *PdfMerge) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                   "pdf-merge",
		Label:                "Merge PDFs",
		Description:          "Concatenate multiple PDFs into one, in submission order.",
		AcceptedExtensions:   []string{".pdf"},
		AcceptsMultipleFiles: true,
	}
}

func (p *PdfMerge) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	if len(inputPaths) == 0 {
		inputPaths = []string{inputPath}
	}
	if err := onProgress(ctx, 10, fmt.Sprintf("merging %d PDFs", len(inputPaths))); err != nil {
		return "", err
	}

	result := filepath.Join(outputDir, "result.pdf")
	if err := p.engine.Merge(ctx, inputPaths, result); err != nil {
		return "", fmt.Errorf("pdf-merge: %w", err)
	}

	if err := onProgress(ctx, 100, "merge complete"); err != nil {
		return "", err
	}
	return result, nil
}

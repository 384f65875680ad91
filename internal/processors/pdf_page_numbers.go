package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfPageNumbers stamps a running page number at the center of every
// page; the number is not placed in a margin. Unlike PdfWatermark it renders one overlay per page number, so
// the stamped value actually advances.
type PdfPageNumbers struct {
	pdf   *pdfengine.Engine
	image *imageengine.Engine
}

// NewPdfPageNumbers wires a PdfPageNumbers processor onto pdf and image.
func NewPdfPageNumbers(pdf *pdfengine.Engine, image *imageengine.Engine) *PdfPageNumbers {
	return &PdfPageNumbers{pdf: pdf, image: image}
}

func (p *PdfPageNumbers) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-page-numbers",
		Label:              "Add page numbers",
		Description:        "Stamp a running page number at the center of every page.",
		AcceptedExtensions: []string{".pdf"},
	}
}

func (p *PdfPageNumbers) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 10, "counting pages"); err != nil {
		return "", err
	}

	count, err := p.pdf.PageCount(ctx, input)
	if err != nil {
		return "", fmt.Errorf("pdf-page-numbers: %w", err)
	}

	overlayPages := make([]string, count)
	for i := 1; i <= count; i++ {
		overlayPage := filepath.Join(outputDir, fmt.Sprintf("overlay-%04d.pdf", i))
		if err := p.image.RenderTextPDF(ctx, fmt.Sprintf("%d", i), overlayPage, letterPointsWidth, letterPointsHeight, 24); err != nil {
			return "", fmt.Errorf("pdf-page-numbers: render overlay for page %d: %w", i, err)
		}
		overlayPages[i-1] = overlayPage

		progress := float64(10 + (i*50)/count)
		if err := onProgress(ctx, progress, fmt.Sprintf("rendered number %d/%d", i, count)); err != nil {
			return "", err
		}
	}

	overlay := filepath.Join(outputDir, "overlay.pdf")
	if err := p.pdf.Merge(ctx, overlayPages, overlay); err != nil {
		return "", fmt.Errorf("pdf-page-numbers: assemble overlay: %w", err)
	}

	if err := onProgress(ctx, 70, "stamping pages"); err != nil {
		return "", err
	}
	result := filepath.Join(outputDir, "result.pdf")
	if err := p.pdf.PageNumbers(ctx, input, overlay, result); err != nil {
		return "", fmt.Errorf("pdf-page-numbers: %w", err)
	}

	if err := onProgress(ctx, 100, "page numbering complete"); err != nil {
		return "", err
	}
	return result, nil
}

package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// letterPointsWidth/letterPointsHeight approximate a US Letter page at
// 72 points per inch, the canvas the text overlay is rendered to before
// being stamped onto the source PDF's own pages.
const (
	letterPointsWidth  = 612
	letterPointsHeight = 792
)

// PdfWatermark stamps a text watermark across every page of a PDF.
type PdfWatermark struct {
	pdf   *pdfengine.Engine
	image *imageengine.Engine
}

// NewPdfWatermark wires a PdfWatermark processor onto pdf and image.
func NewPdfWatermark(pdf *pdfengine.Engine, image *imageengine.Engine) *PdfWatermark {
	return &PdfWatermark{pdf: pdf, image: image}
}

func (p *PdfWatermark) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-watermark",
		Label:              "Watermark PDF",
		Description:        "Stamp a text watermark across every page of a PDF.",
		AcceptedExtensions: []string{".pdf"},
		OptionsSchema: []options.Def{
			{ID: "text", Label: "Watermark text", Type: options.TypeText, Default: "CONFIDENTIAL"},
		},
	}
}

func (p *PdfWatermark) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 10, "rendering watermark"); err != nil {
		return "", err
	}

	text := stringOpt(opts, "text", "CONFIDENTIAL")
	overlay := filepath.Join(outputDir, "overlay.pdf")
	if err := p.image.RenderTextPDF(ctx, text, overlay, letterPointsWidth, letterPointsHeight, 48); err != nil {
		return "", fmt.Errorf("pdf-watermark: render overlay: %w", err)
	}

	if err := onProgress(ctx, 55, "stamping pages"); err != nil {
		return "", err
	}
	result := filepath.Join(outputDir, "result.pdf")
	if err := p.pdf.Watermark(ctx, input, overlay, result); err != nil {
		return "", fmt.Errorf("pdf-watermark: %w", err)
	}

	if err := onProgress(ctx, 100, "watermark complete"); err != nil {
		return "", err
	}
	return result, nil
}

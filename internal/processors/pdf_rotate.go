package processors

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfRotate rotates every page of a PDF by a fixed angle.
type PdfRotate struct {
	engine *pdfengine.Engine
}

// NewPdfRotate wires a PdfRotate processor onto engine.
func NewPdfRotate(engine *pdfengine.Engine) *PdfRotate {
	return &PdfRotate{engine: engine}
}

func (p *PdfRotate) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-rotate",
		Label:              "Rotate PDF",
		Description:        "Rotate every page of a PDF by a fixed angle.",
		AcceptedExtensions: []string{".pdf"},
		OptionsSchema: []options.Def{
			{ID: "degrees", Label: "Rotation", Type: options.TypeSelect, Default: "90", Choices: []options.Choice{
				{Value: "90", Label: "90°"},
				{Value: "180", Label: "180°"},
				{Value: "270", Label: "270°"},
			}},
		},
	}
}

func (p *PdfRotate) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	if err := onProgress(ctx, 15, "rotating pages"); err != nil {
		return "", err
	}

	degrees := intOpt(opts, "degrees", 90)
	if s := stringOpt(opts, "degrees", ""); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			degrees = n
		}
	}
	result := filepath.Join(outputDir, "result.pdf")
	if err := p.engine.Rotate(ctx, input, result, degrees); err != nil {
		return "", fmt.Errorf("pdf-rotate: %w", err)
	}

	if err := onProgress(ctx, 100, "rotation complete"); err != nil {
		return "", err
	}
	return result, nil
}

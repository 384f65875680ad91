package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfProtect encrypts a PDF with a user (open) password.
type PdfProtect struct {
	engine *pdfengine.Engine
}

// NewPdfProtect wires a PdfProtect processor onto engine.
func NewPdfProtect(engine *pdfengine.Engine) *PdfProtect {
	return &PdfProtect{engine: engine}
}

func (p *PdfProtect) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-protect",
		Label:              "Password-protect PDF",
		Description:        "Encrypt a PDF with a user password required to open it.",
		AcceptedExtensions: []string{".pdf"},
		OptionsSchema: []options.Def{
			{ID: "password", Label: "Password", Type: options.TypeText},
		},
	}
}

func (p *PdfProtect) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	password := stringOpt(opts, "password", "")
	if password == "" {
		return "", fmt.Errorf("pdf-protect: password option is required")
	}
	if err := onProgress(ctx, 15, "encrypting"); err != nil {
		return "", err
	}

	result := filepath.Join(outputDir, "result.pdf")
	if err := p.engine.Protect(ctx, input, result, password, password); err != nil {
		return "", fmt.Errorf("pdf-protect: %w", err)
	}

	if err := onProgress(ctx, 100, "protection complete"); err != nil {
		return "", err
	}
	return result, nil
}

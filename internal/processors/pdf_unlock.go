package processors

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/maauso/mediajob-server/internal/options"
	"github.com/maauso/mediajob-server/internal/processor"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

// PdfUnlock removes password protection from a PDF, given the password.
type PdfUnlock struct {
	engine *pdfengine.Engine
}

// NewPdfUnlock wires a PdfUnlock processor onto engine.
func NewPdfUnlock(engine *pdfengine.Engine) *PdfUnlock {
	return &PdfUnlock{engine: engine}
}

func (p *PdfUnlock) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		ID:                 "pdf-unlock",
		Label:              "Remove PDF password",
		Description:        "Decrypt a password-protected PDF, given its password.",
		AcceptedExtensions: []string{".pdf"},
		OptionsSchema: []options.Def{
			{ID: "password", Label: "Password", Type: options.TypeText},
		},
	}
}

func (p *PdfUnlock) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	input, err := ensureSingleInput(inputPaths, inputPath)
	if err != nil {
		return "", err
	}
	password := stringOpt(opts, "password", "")
	if password == "" {
		return "", fmt.Errorf("pdf-unlock: password option is required")
	}
	if err := onProgress(ctx, 15, "decrypting"); err != nil {
		return "", err
	}

	result := filepath.Join(outputDir, "result.pdf")
	if err := p.engine.Unlock(ctx, input, result, password); err != nil {
		return "", fmt.Errorf("pdf-unlock: %w", err)
	}

	if err := onProgress(ctx, 100, "unlock complete"); err != nil {
		return "", err
	}
	return result, nil
}

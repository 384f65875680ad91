// Package pdfengine wraps qpdf and poppler-utils (pdftoppm, pdftotext)
// shared by every PDF processor, grounded on the same
// exec.CommandContext/stderr-capture pattern as ffmpegengine and
// imageengine. Page-numbering and watermarking ride qpdf's own overlay
// subcommands; merge/split/rotate/protect/unlock are native qpdf
// operations.
package pdfengine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/maauso/mediajob-server/internal/bintools"
)

// Engine runs qpdf and poppler-utils commands with resolved binary paths.
type Engine struct {
	qpdfPath     string
	pdftoppmPath string
	pdftotextPath string
}

// New resolves qpdf, pdftoppm, and pdftotext via resolver.
func New(resolver *bintools.Resolver) (*Engine, error) {
	qpdf, err := resolver.Resolve("qpdf", "QPDF_PATH")
	if err != nil {
		return nil, err
	}
	pdftoppm, err := resolver.Resolve("pdftoppm", "POPPLER_PATH")
	if err != nil {
		return nil, err
	}
	pdftotext, err := resolver.Resolve("pdftotext", "POPPLER_PATH")
	if err != nil {
		return nil, err
	}
	return &Engine{qpdfPath: qpdf, pdftoppmPath: pdftoppm, pdftotextPath: pdftotext}, nil
}

// Error wraps a tool failure with its captured stderr.
type Error struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pdfengine: %s: %v\nargs: %v\nstderr: %s", e.Tool, e.Err, e.Args, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

func run(ctx context.Context, tool string, args ...string) error {
	// #nosec G204 - tool path is resolved by bintools, not taken from request input
	cmd := exec.CommandContext(ctx, tool, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("pdfengine: cancelled: %w", ctx.Err())
		}
		return &Error{Tool: tool, Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Merge concatenates srcs (in order) into one PDF at dst.
func (e *Engine) Merge(ctx context.Context, srcs []string, dst string) error {
	args := []string{"--empty", "--pages"}
	args = append(args, srcs...)
	args = append(args, "--", dst)
	return run(ctx, e.qpdfPath, args...)
}

// Split writes one single-page PDF per page of src into outDir, named
// page-%04d.pdf.
func (e *Engine) Split(ctx context.Context, src, outDir string, pageCount int) error {
	for i := 1; i <= pageCount; i++ {
		dst := fmt.Sprintf("%s/page-%04d.pdf", outDir, i)
		pageRange := fmt.Sprintf("%d", i)
		if err := run(ctx, e.qpdfPath, "--empty", "--pages", src, pageRange, "--", dst); err != nil {
			return err
		}
	}
	return nil
}

// PageCount returns the number of pages in src via qpdf --show-npages.
func (e *Engine) PageCount(ctx context.Context, src string) (int, error) {
	var stdout bytes.Buffer
	// #nosec G204 - qpdfPath is resolved by bintools, not taken from request input
	cmd := exec.CommandContext(ctx, e.qpdfPath, "--show-npages", src)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("pdfengine: show-npages: %w", err)
	}
	n, err := strconv.Atoi(trimNewline(stdout.String()))
	if err != nil {
		return 0, fmt.Errorf("pdfengine: parse page count: %w", err)
	}
	return n, nil
}

// Compress runs qpdf's own object-stream compression and linearization.
func (e *Engine) Compress(ctx context.Context, src, dst string) error {
	return run(ctx, e.qpdfPath, "--object-streams=generate", "--compress-streams=y", "--linearize", src, dst)
}

// Rotate rotates every page of src by degrees (one of 0, 90, 180, 270).
func (e *Engine) Rotate(ctx context.Context, src, dst string, degrees int) error {
	rotation := fmt.Sprintf("%d", degrees)
	return run(ctx, e.qpdfPath, "--rotate="+rotation, src, dst)
}

// Protect re-encrypts src with the given user/owner passwords.
func (e *Engine) Protect(ctx context.Context, src, dst, userPassword, ownerPassword string) error {
	return run(ctx, e.qpdfPath, "--encrypt", userPassword, ownerPassword, "256", "--", src, dst)
}

// Unlock decrypts src (which requires password) into dst.
func (e *Engine) Unlock(ctx context.Context, src, dst, password string) error {
	return run(ctx, e.qpdfPath, "--password="+password, "--decrypt", src, dst)
}

// Watermark overlays overlayPDF (a single-page PDF rendering of the
// watermark) onto every page of src.
func (e *Engine) Watermark(ctx context.Context, src, overlayPDF, dst string) error {
	return run(ctx, e.qpdfPath, "--overlay", overlayPDF, "--repeat=1-z", "--", src, dst)
}

// PageNumbers is an alias of Watermark: page numbering is implemented as
// a per-page overlay PDF the caller renders, then stamped the same way
// as a watermark: page numbering and watermarking share the pdf
// engine's own stamping subcommands.
func (e *Engine) PageNumbers(ctx context.Context, src, overlayPDF, dst string) error {
	return e.Watermark(ctx, src, overlayPDF, dst)
}

// ToImages rasterizes every page of src into outDir as PNG files named
// page-1.png, page-2.png, ....
func (e *Engine) ToImages(ctx context.Context, src, outDir string, dpi int) error {
	return run(ctx, e.pdftoppmPath, "-png", "-r", strconv.Itoa(dpi), src, outDir+"/page")
}

// ExtractText writes the plain-text content of src to dst.
func (e *Engine) ExtractText(ctx context.Context, src, dst string) error {
	return run(ctx, e.pdftotextPath, src, dst)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

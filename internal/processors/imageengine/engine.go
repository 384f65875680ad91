// Package imageengine wraps the ImageMagick CLI (magick, falling back to
// convert) shared by every image processor, grounded on the same
// exec.CommandContext/stderr-capture pattern as ffmpegengine.
package imageengine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/maauso/mediajob-server/internal/bintools"
)

// Engine runs ImageMagick commands with a resolved binary path.
type Engine struct {
	binPath string
}

// New resolves magick (preferred) or convert via resolver.
func New(resolver *bintools.Resolver) (*Engine, error) {
	if path, err := resolver.Resolve("magick", "IMAGEMAGICK_PATH"); err == nil {
		return &Engine{binPath: path}, nil
	}
	path, err := resolver.Resolve("convert", "IMAGEMAGICK_PATH")
	if err != nil {
		return nil, err
	}
	return &Engine{binPath: path}, nil
}

// Error wraps an ImageMagick failure with its captured stderr.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("imageengine: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// Run executes the resolved binary with args.
func (e *Engine) Run(ctx context.Context, args ...string) error {
	// #nosec G204 - binPath is resolved by bintools, not taken from request input
	cmd := exec.CommandContext(ctx, e.binPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("imageengine: cancelled: %w", ctx.Err())
		}
		return &Error{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Convert converts src to dst, letting ImageMagick infer formats from
// file extensions. quality is applied when > 0 (JPEG/WEBP quality tier).
func (e *Engine) Convert(ctx context.Context, src, dst string, quality int) error {
	args := []string{src}
	if quality > 0 {
		args = append(args, "-quality", strconv.Itoa(quality))
	}
	args = append(args, dst)
	return e.Run(ctx, args...)
}

// Resize resizes src into dst to fit within w x h, preserving aspect
// ratio (no upscaling past the original, no padding).
func (e *Engine) Resize(ctx context.Context, src, dst string, w, h int) error {
	geometry := fmt.Sprintf("%dx%d>", w, h)
	return e.Run(ctx, src, "-resize", geometry, dst)
}

// Watermark composites overlayPath onto src at the given gravity
// (ImageMagick gravity keyword, e.g. "SouthEast"), writing dst.
func (e *Engine) Watermark(ctx context.Context, src, overlayPath, dst, gravity string) error {
	return e.Run(ctx,
		src, overlayPath,
		"-gravity", gravity,
		"-composite",
		dst,
	)
}

// ToPDF wraps one or more images into a single PDF.
func (e *Engine) ToPDF(ctx context.Context, srcs []string, dst string) error {
	args := append([]string{}, srcs...)
	args = append(args, dst)
	return e.Run(ctx, args...)
}

// RenderTextPDF rasterizes text onto a transparent canvas and wraps it
// in a single-page PDF sized to pageWidth x pageHeight, centered on the
// page. It is how pdf-watermark and pdf-page-numbers produce the
// overlay PDF that pdfengine.Engine.Watermark then stamps onto every
// page (qpdf itself has no text-rendering subcommand).
func (e *Engine) RenderTextPDF(ctx context.Context, text, dst string, pageWidth, pageHeight, pointsize int) error {
	geometry := fmt.Sprintf("%dx%d", pageWidth, pageHeight)
	return e.Run(ctx,
		"-size", geometry,
		"-background", "none",
		"-fill", "black",
		"-pointsize", strconv.Itoa(pointsize),
		"-gravity", "center",
		fmt.Sprintf("label:%s", text),
		"-extent", geometry,
		dst,
	)
}

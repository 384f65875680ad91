// Package ffmpegengine wraps the ffmpeg/ffprobe CLI tools shared by every
// video and audio processor: command construction, stderr capture into
// a typed error, and ffprobe-based duration probing, generalized into
// the primitives the media processors in this server actually need
// (transcode, trim, thumbnail, gif, extract audio).
package ffmpegengine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/maauso/mediajob-server/internal/bintools"
)

// Engine runs ffmpeg/ffprobe commands with resolved binary paths.
type Engine struct {
	ffmpegPath  string
	ffprobePath string
}

// New resolves ffmpeg and ffprobe via resolver and returns a ready Engine.
func New(resolver *bintools.Resolver) (*Engine, error) {
	ffmpeg, err := resolver.Resolve("ffmpeg", "FFMPEG_PATH")
	if err != nil {
		return nil, err
	}
	ffprobe, err := resolver.Resolve("ffprobe", "FFPROBE_PATH")
	if err != nil {
		return nil, err
	}
	return &Engine{ffmpegPath: ffmpeg, ffprobePath: ffprobe}, nil
}

// Error wraps an ffmpeg/ffprobe failure with the captured stderr.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ffmpegengine: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// Run executes ffmpeg with args, always passing -y to overwrite outputs.
func (e *Engine) Run(ctx context.Context, args ...string) error {
	full := append([]string{"-y"}, args...)
	// #nosec G204 - ffmpegPath is resolved by bintools, not taken from request input
	cmd := exec.CommandContext(ctx, e.ffmpegPath, full...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpegengine: cancelled: %w", ctx.Err())
		}
		return &Error{Args: full, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Duration returns the duration in seconds of the media file at path.
func (e *Engine) Duration(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is resolved by bintools, not taken from request input
	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffmpegengine: ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("ffmpegengine: ffprobe failed: %w, stderr: %s", err, stderr.String())
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("ffmpegengine: parse duration: %w", err)
	}
	return d, nil
}

// Transcode re-encodes src into dst, letting ffmpeg infer codecs from
// dst's extension. extraArgs are inserted before the output path (e.g.
// scale filters, bitrate flags).
func (e *Engine) Transcode(ctx context.Context, src, dst string, extraArgs ...string) error {
	args := append([]string{"-i", src}, extraArgs...)
	args = append(args, dst)
	return e.Run(ctx, args...)
}

// Trim cuts [startSec, startSec+durSec) out of src into dst using stream
// copy (fast path, no re-encode).
func (e *Engine) Trim(ctx context.Context, src, dst string, startSec, durSec float64) error {
	return e.Run(ctx,
		"-ss", strconv.FormatFloat(startSec, 'f', 3, 64),
		"-i", src,
		"-t", strconv.FormatFloat(durSec, 'f', 3, 64),
		"-c", "copy",
		dst,
	)
}

// Thumbnail extracts a single frame at atSec into dst (an image file).
func (e *Engine) Thumbnail(ctx context.Context, src, dst string, atSec float64) error {
	return e.Run(ctx,
		"-ss", strconv.FormatFloat(atSec, 'f', 3, 64),
		"-i", src,
		"-frames:v", "1",
		dst,
	)
}

// ExtractAudio demuxes src's audio track into dst, letting ffmpeg infer
// the codec from dst's extension.
func (e *Engine) ExtractAudio(ctx context.Context, src, dst string) error {
	return e.Run(ctx, "-i", src, "-vn", dst)
}

// ToGIF converts a video segment into an animated GIF in a single filter
// pass (no palette generation), scaled to width (height auto, -1
// preserves aspect ratio) and resampled to fps.
func (e *Engine) ToGIF(ctx context.Context, src, dst string, width, fps int) error {
	filter := fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos", fps, width)
	return e.Run(ctx, "-i", src, "-vf", filter, dst)
}

// ExtractFrames decomposes src into individual PNG frames under
// frameDir (named frame-%05d.png), sampled at fps frames per second.
func (e *Engine) ExtractFrames(ctx context.Context, src, frameDir string, fps int) error {
	return e.Run(ctx,
		"-i", src,
		"-vf", fmt.Sprintf("fps=%d", fps),
		frameDir+"/frame-%05d.png",
	)
}

// AssembleFrames reassembles PNG frames (possibly with an alpha
// channel, named frame-%05d.png under frameDir) into dst at fps,
// preserving transparency via the VP9/yuva420p codec pairing.
func (e *Engine) AssembleFrames(ctx context.Context, frameDir, dst string, fps int) error {
	return e.Run(ctx,
		"-framerate", strconv.Itoa(fps),
		"-i", frameDir+"/frame-%05d.png",
		"-c:v", "libvpx-vp9",
		"-pix_fmt", "yuva420p",
		dst,
	)
}

// Compress re-encodes src to dst at the given CRF (lower = higher
// quality, larger file; 18-28 is the usual useful range).
func (e *Engine) Compress(ctx context.Context, src, dst string, crf int) error {
	return e.Run(ctx,
		"-i", src,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", strconv.Itoa(crf),
		"-c:a", "aac",
		"-b:a", "128k",
		dst,
	)
}

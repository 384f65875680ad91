// Package bgremove wraps the rembg CLI (AI background-removal model)
// shared by image-bg-remove and video-bg-remove, and provides the
// bounded per-job frame-parallelism video-bg-remove needs: processors
// that perform N independent sub-tasks dispatch them through a per-job
// semaphore sized to the worker pool.
package bgremove

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/maauso/mediajob-server/internal/bintools"
)

// Engine runs rembg with a resolved binary path.
type Engine struct {
	binPath string
}

// New resolves rembg via resolver.
func New(resolver *bintools.Resolver) (*Engine, error) {
	path, err := resolver.Resolve("rembg", "REMBG_PATH")
	if err != nil {
		return nil, err
	}
	return &Engine{binPath: path}, nil
}

// Error wraps a rembg failure with its captured stderr.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bgremove: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// RemoveBackground runs rembg on a single image, writing a transparent
// PNG to dst.
func (e *Engine) RemoveBackground(ctx context.Context, src, dst string) error {
	args := []string{"i", src, dst}
	// #nosec G204 - binPath is resolved by bintools, not taken from request input
	cmd := exec.CommandContext(ctx, e.binPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("bgremove: cancelled: %w", ctx.Err())
		}
		return &Error{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// FrameTask is one frame's worth of background-removal work.
type FrameTask struct {
	SrcPath string
	DstPath string
}

// RemoveBackgroundFromFrames runs RemoveBackground over every task,
// bounded by a semaphore of size poolSize so a single large video job
// cannot starve concurrently running jobs that share the same process.
// progress is invoked after each frame completes, with the
// cumulative count and total; it is the caller's job to translate that
// into a percent and forward it through on_progress with ordering
// preserved (progress is called from whichever worker goroutine finished
// the frame, under a mutex, so calls are serialized — never concurrent).
func (e *Engine) RemoveBackgroundFromFrames(ctx context.Context, tasks []FrameTask, poolSize int, progress func(done, total int)) error {
	if poolSize < 1 {
		poolSize = 1
	}
	sem := make(chan struct{}, poolSize)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     int
	)

	for _, task := range tasks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(task FrameTask) {
			defer wg.Done()
			defer func() { <-sem }()

			err := e.RemoveBackground(ctx, task.SrcPath, task.DstPath)

			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = err
			}
			done++
			if progress != nil {
				progress(done, len(tasks))
			}
		}(task)
	}

	wg.Wait()
	return firstErr
}

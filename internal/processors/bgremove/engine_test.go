package bgremove

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/mediajob-server/internal/bintools"
)

func fakeBinDir(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rembg"), []byte("#!/bin/sh\n"+body), 0o755))
	return dir
}

func TestRemoveBackground_WrapsStderrOnFailure(t *testing.T) {
	dir := fakeBinDir(t, "echo 'model load failed' >&2\nexit 1\n")
	e, err := New(bintools.NewResolver(dir))
	require.NoError(t, err)

	err = e.RemoveBackground(context.Background(), "in.png", "out.png")
	require.Error(t, err)

	var bgErr *Error
	require.True(t, errors.As(err, &bgErr))
	assert.Contains(t, bgErr.Stderr, "model load failed")
}

func TestRemoveBackgroundFromFrames_RunsAllTasksAndReportsProgress(t *testing.T) {
	dir := fakeBinDir(t, "exit 0\n")
	e, err := New(bintools.NewResolver(dir))
	require.NoError(t, err)

	var tasks []FrameTask
	for i := 0; i < 10; i++ {
		tasks = append(tasks, FrameTask{SrcPath: fmt.Sprintf("frame-%d.png", i), DstPath: fmt.Sprintf("out-%d.png", i)})
	}

	var calls int64
	err = e.RemoveBackgroundFromFrames(context.Background(), tasks, 3, func(done, total int) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, 10, total)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), calls)
}

func TestRemoveBackgroundFromFrames_PropagatesFirstError(t *testing.T) {
	dir := fakeBinDir(t, "exit 1\n")
	e, err := New(bintools.NewResolver(dir))
	require.NoError(t, err)

	tasks := []FrameTask{{SrcPath: "a.png", DstPath: "a-out.png"}}
	err = e.RemoveBackgroundFromFrames(context.Background(), tasks, 2, nil)
	assert.Error(t, err)
}

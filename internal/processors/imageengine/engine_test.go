package imageengine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/mediajob-server/internal/bintools"
)

func fakeBinDir(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755))
	}
	return dir
}

func TestNew_PrefersMagickOverConvert(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{"magick": "exit 0\n", "convert": "exit 0\n"})
	e, err := New(bintools.NewResolver(dir))
	require.NoError(t, err)
	assert.Contains(t, e.binPath, "magick")
}

func TestNew_FallsBackToConvert(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{"convert": "exit 0\n"})
	e, err := New(bintools.NewResolver(dir))
	require.NoError(t, err)
	assert.Contains(t, e.binPath, "convert")
}

func TestRun_WrapsStderrOnFailure(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{"magick": "echo 'bad format' >&2\nexit 1\n"})
	e, err := New(bintools.NewResolver(dir))
	require.NoError(t, err)

	err = e.Convert(context.Background(), "in.png", "out.jpg", 80)
	require.Error(t, err)

	var imgErr *Error
	require.True(t, errors.As(err, &imgErr))
	assert.Contains(t, imgErr.Stderr, "bad format")
}

func TestConvert_Succeeds(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{"magick": "exit 0\n"})
	e, err := New(bintools.NewResolver(dir))
	require.NoError(t, err)
	assert.NoError(t, e.Convert(context.Background(), "in.png", "out.jpg", 0))
}

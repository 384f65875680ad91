package processors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/mediajob-server/internal/bintools"
	"github.com/maauso/mediajob-server/internal/processors/imageengine"
)

func TestImageCompress_Descriptor(t *testing.T) {
	p := NewImageCompress(nil)
	d := p.Descriptor()
	assert.Equal(t, "image-compress", d.ID)
	assert.True(t, d.AcceptsExtension(".webp"))
}

func TestImageCompress_Process_QualityOnly(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{
		"magick": "shift $(($#-1))\ntouch \"$1\"\n",
	})
	engine, err := imageengine.New(bintools.NewResolver(dir))
	require.NoError(t, err)

	p := NewImageCompress(engine)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	result, err := p.Process(context.Background(), input, outDir, noProgress, map[string]any{"quality": float64(50)}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.png"), result)
	assert.FileExists(t, result)
}

func TestImageCompress_Process_ResizesWhenRequested(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{
		"magick": "shift $(($#-1))\ntouch \"$1\"\n",
	})
	engine, err := imageengine.New(bintools.NewResolver(dir))
	require.NoError(t, err)

	p := NewImageCompress(engine)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	result, err := p.Process(context.Background(), input, outDir, noProgress,
		map[string]any{"quality": float64(50), "resize": float64(512)}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.png"), result)
	assert.FileExists(t, result)
	assert.FileExists(t, filepath.Join(outDir, "resized.png"))
}

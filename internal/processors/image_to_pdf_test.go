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

func TestImageToPDF_Descriptor(t *testing.T) {
	p := NewImageToPDF(nil)
	d := p.Descriptor()
	assert.Equal(t, "image-to-pdf", d.ID)
	assert.True(t, d.AcceptsMultipleFiles)
}

func TestImageToPDF_Process_CombinesAllImages(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{
		"magick": "shift $(($#-1))\ntouch \"$1\"\n",
	})
	engine, err := imageengine.New(bintools.NewResolver(dir))
	require.NoError(t, err)

	p := NewImageToPDF(engine)
	outDir := t.TempDir()
	img1 := filepath.Join(t.TempDir(), "a.png")
	img2 := filepath.Join(t.TempDir(), "b.png")
	require.NoError(t, os.WriteFile(img1, []byte("fake"), 0o644))
	require.NoError(t, os.WriteFile(img2, []byte("fake"), 0o644))

	result, err := p.Process(context.Background(), img1, outDir, noProgress, nil, []string{img1, img2})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.pdf"), result)
	assert.FileExists(t, result)
}

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

func TestPdfWatermark_Descriptor(t *testing.T) {
	p := NewPdfWatermark(nil, nil)
	d := p.Descriptor()
	assert.Equal(t, "pdf-watermark", d.ID)
	assert.True(t, d.AcceptsExtension(".pdf"))
}

func TestPdfWatermark_Process(t *testing.T) {
	pdfEngine := newFakePdfEngine(t, fakeQpdfTouchLastArg)

	imgDir := fakeBinDir(t, map[string]string{
		"magick": "shift $(($#-1))\ntouch \"$1\"\n",
	})
	imgEngine, err := imageengine.New(bintools.NewResolver(imgDir))
	require.NoError(t, err)

	p := NewPdfWatermark(pdfEngine, imgEngine)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	var progress []float64
	result, err := p.Process(context.Background(), input, outDir, collectProgress(&progress), map[string]any{"text": "DRAFT"}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.pdf"), result)
	assert.FileExists(t, result)
	assert.Equal(t, []float64{10, 55, 100}, progress)
}

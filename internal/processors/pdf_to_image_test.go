package processors

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPdfToImage_Descriptor(t *testing.T) {
	p := NewPdfToImage(nil)
	d := p.Descriptor()
	assert.Equal(t, "pdf-to-image", d.ID)
	assert.True(t, d.AcceptsExtension(".pdf"))
}

func TestPdfToImage_Process_ProducesZipOfPages(t *testing.T) {
	engine := newFakePdfEngine(t, fakeQpdfTouchLastArg)
	p := NewPdfToImage(engine)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	result, err := p.Process(context.Background(), input, outDir, noProgress, map[string]any{"dpi": float64(200)}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.zip"), result)

	r, err := zip.OpenReader(result)
	require.NoError(t, err)
	defer r.Close()
	assert.NotEmpty(t, r.File)
}

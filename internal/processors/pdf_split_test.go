package processors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/mediajob-server/internal/bintools"
	"github.com/maauso/mediajob-server/internal/processors/pdfengine"
)

func TestPdfSplit_Descriptor(t *testing.T) {
	p := NewPdfSplit(nil)
	d := p.Descriptor()
	assert.Equal(t, "pdf-split", d.ID)
	assert.True(t, d.AcceptsExtension(".pdf"))
}

func TestPdfSplit_Process_ProducesZipOfPages(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{
		"qpdf": "if [ \"$1\" = \"--show-npages\" ]; then echo 2; exit 0; fi\n" +
			"shift $(($#-1))\ntouch \"$1\"\n",
		"pdftoppm":  "exit 0\n",
		"pdftotext": "exit 0\n",
	})
	engine, err := pdfengine.New(bintools.NewResolver(dir))
	require.NoError(t, err)

	p := NewPdfSplit(engine)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	result, err := p.Process(context.Background(), input, outDir, noProgress, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.zip"), result)
	assert.FileExists(t, result)
}

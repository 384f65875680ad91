package processors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPdfProtect_Descriptor(t *testing.T) {
	p := NewPdfProtect(nil)
	d := p.Descriptor()
	assert.Equal(t, "pdf-protect", d.ID)
	assert.True(t, d.AcceptsExtension(".pdf"))
}

func TestPdfProtect_Process(t *testing.T) {
	engine := newFakePdfEngine(t, fakeQpdfTouchLastArg)
	p := NewPdfProtect(engine)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	result, err := p.Process(context.Background(), input, outDir, noProgress, map[string]any{"password": "hunter2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.pdf"), result)
	assert.FileExists(t, result)
}

func TestPdfProtect_Process_RequiresPassword(t *testing.T) {
	p := NewPdfProtect(nil)
	_, err := p.Process(context.Background(), "in.pdf", t.TempDir(), noProgress, nil, nil)
	assert.Error(t, err)
}

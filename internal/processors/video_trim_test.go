package processors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/mediajob-server/internal/bintools"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

func TestVideoTrim_Descriptor(t *testing.T) {
	p := NewVideoTrim(nil)
	d := p.Descriptor()
	assert.Equal(t, "video-trim", d.ID)
	assert.True(t, d.AcceptsExtension(".mov"))
}

func TestVideoTrim_Process(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{
		"ffmpeg":  "shift $(($#-1))\ntouch \"$1\"\n",
		"ffprobe": "exit 0\n",
	})
	engine, err := ffmpegengine.New(bintools.NewResolver(dir))
	require.NoError(t, err)

	p := NewVideoTrim(engine)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.mp4")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	result, err := p.Process(context.Background(), input, outDir, noProgress,
		map[string]any{"start_sec": float64(2), "duration_sec": float64(5)}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.mp4"), result)
	assert.FileExists(t, result)
}

func TestVideoTrim_Process_RejectsNonPositiveDuration(t *testing.T) {
	p := NewVideoTrim(nil)
	_, err := p.Process(context.Background(), "in.mp4", t.TempDir(), noProgress,
		map[string]any{"duration_sec": float64(0)}, nil)
	assert.Error(t, err)
}

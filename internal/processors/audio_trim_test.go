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

func TestAudioTrim_Descriptor(t *testing.T) {
	p := NewAudioTrim(nil)
	d := p.Descriptor()
	assert.Equal(t, "audio-trim", d.ID)
	assert.True(t, d.AcceptsExtension(".flac"))
}

func TestAudioTrim_Process(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{
		"ffmpeg":  "shift $(($#-1))\ntouch \"$1\"\n",
		"ffprobe": "exit 0\n",
	})
	engine, err := ffmpegengine.New(bintools.NewResolver(dir))
	require.NoError(t, err)

	p := NewAudioTrim(engine)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.mp3")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	result, err := p.Process(context.Background(), input, outDir, noProgress,
		map[string]any{"start_sec": float64(1), "duration_sec": float64(4)}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.mp3"), result)
	assert.FileExists(t, result)
}

func TestAudioTrim_Process_RejectsNonPositiveDuration(t *testing.T) {
	p := NewAudioTrim(nil)
	_, err := p.Process(context.Background(), "in.mp3", t.TempDir(), noProgress,
		map[string]any{"duration_sec": float64(-1)}, nil)
	assert.Error(t, err)
}

package processors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/mediajob-server/internal/bintools"
	"github.com/maauso/mediajob-server/internal/processors/bgremove"
	"github.com/maauso/mediajob-server/internal/processors/ffmpegengine"
)

func TestVideoBgRemove_Descriptor(t *testing.T) {
	p := NewVideoBgRemove(nil, nil, 2)
	d := p.Descriptor()
	assert.Equal(t, "video-bg-remove", d.ID)
	assert.True(t, d.AcceptsExtension(".mp4"))
}

// fakeFFmpegExtractAndAssemble stands in for both ExtractFrames (produces two
// numbered frame files in the target directory instead of the literal
// "%05d" pattern name) and AssembleFrames/any other call (touches its
// last argument as a plain output file).
const fakeFFmpegExtractAndAssemble = `
last=""
for a in "$@"; do last="$a"; done
case "$last" in
  */frame-%05d.png)
    dir=$(dirname "$last")
    touch "$dir/frame-00001.png" "$dir/frame-00002.png"
    ;;
  *)
    touch "$last"
    ;;
esac
`

func TestVideoBgRemove_Process(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{
		"ffmpeg":  fakeFFmpegExtractAndAssemble,
		"ffprobe": "exit 0\n",
		"rembg":   "touch \"$3\"\n",
	})
	ffmpeg, err := ffmpegengine.New(bintools.NewResolver(dir))
	require.NoError(t, err)
	bg, err := bgremove.New(bintools.NewResolver(dir))
	require.NoError(t, err)

	p := NewVideoBgRemove(ffmpeg, bg, 2)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.mp4")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	var progress []float64
	result, err := p.Process(context.Background(), input, outDir, collectProgress(&progress), map[string]any{"fps": float64(12)}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "result.webm"), result)
	assert.FileExists(t, result)
	assert.NotEmpty(t, progress)
	assert.Equal(t, float64(100), progress[len(progress)-1])
}

func TestVideoBgRemove_Process_NoFramesExtractedErrors(t *testing.T) {
	dir := fakeBinDir(t, map[string]string{
		"ffmpeg":  "exit 0\n", // extracts nothing
		"ffprobe": "exit 0\n",
		"rembg":   "touch \"$3\"\n",
	})
	ffmpeg, err := ffmpegengine.New(bintools.NewResolver(dir))
	require.NoError(t, err)
	bg, err := bgremove.New(bintools.NewResolver(dir))
	require.NoError(t, err)

	p := NewVideoBgRemove(ffmpeg, bg, 2)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "in.mp4")
	require.NoError(t, os.WriteFile(input, []byte("fake"), 0o644))

	_, err = p.Process(context.Background(), input, outDir, noProgress, nil, nil)
	assert.Error(t, err)
}

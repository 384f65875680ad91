package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/mediajob-server/internal/processor"
)

type stubProcessor struct {
	id string
}

func (s stubProcessor) Descriptor() processor.Descriptor {
	return processor.Descriptor{ID: s.id, Label: s.id}
}

func (s stubProcessor) Process(ctx context.Context, inputPath, outputDir string, onProgress processor.ProgressFunc, opts map[string]any, inputPaths []string) (string, error) {
	return "", nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(stubProcessor{id: "image-convert"}))

	got, err := r.Get("image-convert")
	require.NoError(t, err)
	assert.Equal(t, "image-convert", got.Descriptor().ID)
}

func TestRegistry_Get_UnknownProcessor(t *testing.T) {
	r := New()
	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownProcessor)
}

func TestRegistry_Register_DuplicateRejected(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(stubProcessor{id: "pdf-merge"}))
	err := r.Register(stubProcessor{id: "pdf-merge"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegistry_List_SortedByID(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(stubProcessor{id: "video-convert"}))
	require.NoError(t, r.Register(stubProcessor{id: "audio-convert"}))
	require.NoError(t, r.Register(stubProcessor{id: "pdf-merge"}))

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "audio-convert", list[0].ID)
	assert.Equal(t, "pdf-merge", list[1].ID)
	assert.Equal(t, "video-convert", list[2].ID)
}

func TestRegistry_MustRegister_PanicsOnDuplicate(t *testing.T) {
	r := New()
	r.MustRegister(stubProcessor{id: "x"})
	assert.Panics(t, func() {
		r.MustRegister(stubProcessor{id: "x"})
	})
}

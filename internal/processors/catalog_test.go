package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/mediajob-server/internal/registry"
)

func TestRegister_WiresEveryProcessorExactlyOnce(t *testing.T) {
	reg := registry.New()
	err := Register(reg, Engines{FramePoolSize: 2})
	require.NoError(t, err)

	list := reg.List()
	assert.Len(t, list, 24)

	seen := make(map[string]bool, len(list))
	for _, d := range list {
		assert.False(t, seen[d.ID], "duplicate processor id %q", d.ID)
		seen[d.ID] = true
		assert.NotEmpty(t, d.Label)
		assert.NotEmpty(t, d.AcceptedExtensions)
	}

	_, err = reg.Get("pdf-merge")
	assert.NoError(t, err)
}

func TestRegister_CombiningProcessorsAreExactlyTheMultiFileOnes(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Register(reg, Engines{}))

	want := []string{"image-to-pdf", "image-watermark", "pdf-merge"}
	combining := 0
	for _, d := range reg.List() {
		if d.AcceptsMultipleFiles {
			combining++
			assert.Contains(t, want, d.ID)
		}
	}
	assert.Equal(t, len(want), combining)
}

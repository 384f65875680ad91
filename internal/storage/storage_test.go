package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopArchiver_ReturnsErrNotConfigured(t *testing.T) {
	var a NoopArchiver
	url, err := a.Archive(context.Background(), "result.mp4", bytes.NewReader([]byte("x")))
	assert.Empty(t, url)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

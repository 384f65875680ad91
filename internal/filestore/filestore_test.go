package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsEmptyRoot(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestSaveUpload_WritesUnderJobNamespace(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := s.SaveUpload("job1", "photo.png", strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.True(t, strings.Contains(path, filepath.Join("uploads", "job1", "photo.png")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(got))
}

func TestJobDir_CreatesAndReturnsDirectory(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	dir, err := s.JobDir("job1")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCleanup_RemovesBothDirectoriesAndIsIdempotent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.SaveUpload("job1", "a.txt", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = s.JobDir("job1")
	require.NoError(t, err)

	require.NoError(t, s.Cleanup("job1"))

	_, err = os.Stat(s.uploadsDir("job1"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(s.jobDir("job1"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Cleanup("job1"))
}

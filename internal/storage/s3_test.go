package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3Archiver(t *testing.T) {
	cfg := S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:4566",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}

	archiver, err := NewS3Archiver(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Bucket, archiver.bucket)
	assert.Equal(t, cfg.Region, archiver.region)
}

func TestS3Archiver_Archive_MockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Contains(t, r.URL.Path, "/results/job-1.mp4")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "finished result bytes", string(body))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}

	archiver, err := NewS3Archiver(context.Background(), cfg)
	require.NoError(t, err)

	url, err := archiver.Archive(context.Background(), "results/job-1.mp4", bytes.NewReader([]byte("finished result bytes")))
	require.NoError(t, err)
	assert.Equal(t, "https://test-bucket.s3.us-east-1.amazonaws.com/results/job-1.mp4", url)
}

func TestS3Archiver_Archive_UpstreamErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := S3Config{
		Bucket:   "test-bucket",
		Region:   "us-east-1",
		Endpoint: server.URL,
	}

	archiver, err := NewS3Archiver(context.Background(), cfg)
	require.NoError(t, err)

	_, err = archiver.Archive(context.Background(), "key", bytes.NewReader(nil))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "upload"))
}

func TestNoopArchiver_AlwaysReturnsErrNotConfigured(t *testing.T) {
	var a Archiver = NoopArchiver{}
	_, err := a.Archive(context.Background(), "key", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/tmp/mediajobs", cfg.TempDir)
	assert.Equal(t, 600, cfg.ReaperIntervalSec)
	assert.Equal(t, 3600, cfg.JobExpirySec)
	assert.Equal(t, 60, cfg.SSEHeartbeatSec)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT":                "9090",
		"TEMP_DIR":            "/var/tmp/jobs",
		"WORKER_POOL_SIZE":    "4",
		"REAPER_INTERVAL_SEC": "120",
		"S3_BUCKET":           "my-bucket",
		"S3_REGION":           "us-east-1",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/var/tmp/jobs", cfg.TempDir)
	assert.Equal(t, 4, cfg.WorkerPoolSize)
	assert.Equal(t, 120, cfg.ReaperIntervalSec)
	assert.True(t, cfg.S3Enabled())
}

func TestEffectiveWorkerPoolSize_UsesConfiguredValue(t *testing.T) {
	cfg := &Config{WorkerPoolSize: 7}
	assert.Equal(t, 7, cfg.EffectiveWorkerPoolSize())
}

func TestEffectiveWorkerPoolSize_FallsBackToHalfCPUsWithFloorOfTwo(t *testing.T) {
	cfg := &Config{WorkerPoolSize: 0}
	got := cfg.EffectiveWorkerPoolSize()
	assert.GreaterOrEqual(t, got, 2)
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := &Config{Port: 0, TempDir: "/tmp/x", ReaperIntervalSec: 1, JobExpirySec: 1}
	assert.Error(t, cfg.Validate())
}

func TestValidate_AcceptsSaneConfig(t *testing.T) {
	cfg := &Config{Port: 8080, TempDir: "/tmp/x", ReaperIntervalSec: 600, JobExpirySec: 3600}
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger_DoesNotPanic(t *testing.T) {
	cfg := &Config{LogFormat: "json", LogLevel: "debug"}
	assert.NotPanics(t, func() {
		_ = cfg.NewLogger()
	})

	cfg.LogFormat = "text"
	assert.NotPanics(t, func() {
		_ = cfg.NewLogger()
	})
}

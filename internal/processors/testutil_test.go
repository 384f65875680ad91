package processors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBinDir writes minimal shell scripts standing in for external CLI
// tools so processor tests exercise the full Process() path without a
// real media toolchain installed in CI.
func fakeBinDir(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range scripts {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	}
	return dir
}

// noProgress is a ProgressFunc that does nothing, for processors whose
// reported percentages aren't under test.
func noProgress(_ context.Context, _ float64, _ string) error { return nil }

// collectProgress returns a ProgressFunc recording every reported
// percent, for assertions that progress moves forward monotonically.
func collectProgress(out *[]float64) func(context.Context, float64, string) error {
	return func(_ context.Context, percent float64, _ string) error {
		*out = append(*out, percent)
		return nil
	}
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.JobsSubmitted.WithLabelValues("image-convert").Inc()
	m.ActiveJobs.Set(3)
	m.ReaperRemoved.Add(2)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["mediajobs_jobs_submitted_total"])
	assert.True(t, names["mediajobs_active_jobs"])
	assert.True(t, names["mediajobs_reaper_removed_total"])
}

func TestActiveJobsGauge_ReflectsSetValue(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ActiveJobs.Set(5)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.ActiveJobs))
}

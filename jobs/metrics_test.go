package jobs

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	require.NoError(t, metrics.Track(TaskTypeSendEmail).End(nil))

	errBoom := errors.New("boom")
	assert.ErrorIs(t, metrics.Track(TaskTypeSendEmail).End(errBoom), errBoom)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.failures.WithLabelValues(TaskTypeSendEmail)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues(TaskTypeSendEmail, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runs.WithLabelValues(TaskTypeSendEmail, "failure")))
}

func TestNilTrackerPassesErrorThrough(t *testing.T) {
	var tracker *Tracker
	errBoom := errors.New("boom")
	assert.ErrorIs(t, tracker.End(errBoom), errBoom)
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestRecorderCountsDeliveries ensures delivery outcomes land in the right
// counter cells and the histogram sees one sample per attempt.
func TestRecorderCountsDeliveries(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.ObserveDelivery("ERROR", "webhook", true, 120*time.Millisecond)
	rec.ObserveDelivery("ERROR", "webhook", false, 80*time.Millisecond)
	rec.ObserveDelivery("INFO", "log", true, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(rec.deliveries.WithLabelValues("ERROR", "webhook", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.deliveries.WithLabelValues("ERROR", "webhook", "failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.deliveries.WithLabelValues("INFO", "log", "ok")))
	require.Equal(t, 2, testutil.CollectAndCount(rec.deliveryDuration, "notify_delivery_duration_seconds"))
}

// TestRecorderTracksProgress ensures the gauge and unit counters follow
// reported units and gate crossings.
func TestRecorderTracksProgress(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.UnitReported(true)
	rec.UnitReported(true)
	rec.UnitReported(false)
	rec.ThresholdFired()
	rec.SetProgress(60)

	require.Equal(t, 2.0, testutil.ToFloat64(rec.unitsReported.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.unitsReported.WithLabelValues("error")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.thresholdsFired))
	require.Equal(t, 60.0, testutil.ToFloat64(rec.progressPercent))
}

// TestRecorderDuplicateRegistration ensures a second Recorder on the same
// registry surfaces the collector conflict instead of panicking.
func TestRecorderDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "register notify collector")
}

// TestNilRecorderIsNoop ensures the nil receiver contract holds for every
// method.
func TestNilRecorderIsNoop(t *testing.T) {
	t.Parallel()

	var rec *Recorder
	rec.ObserveDelivery("INFO", "log", true, time.Second)
	rec.ThresholdFired()
	rec.SetProgress(10)
	rec.UnitReported(true)
}

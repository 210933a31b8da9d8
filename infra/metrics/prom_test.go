package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/qmorane/tousim/core/metrics"
	"github.com/qmorane/tousim/core/model"
)

func TestPromSinkRecordsDayResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	ev := coremetrics.DayResultEvent{
		RunID:         "r1",
		Date:          time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Valid:         true,
		Cycles:        1.5,
		MissingPrices: 3,
		Profit:        model.Profit{Profit: 12.5},
	}
	require.NoError(t, sink.RecordDayResult(ev))
	require.NoError(t, sink.RecordDayResult(coremetrics.DayResultEvent{Fallback: true}))

	assert.InDelta(t, 1.0, testutil.ToFloat64(sink.days.WithLabelValues("true")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(sink.days.WithLabelValues("false")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(sink.fallbackDays), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(sink.missingPrices), 1e-9)
	assert.InDelta(t, 1.5, testutil.ToFloat64(sink.cycles), 1e-9)
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(reg)
	assert.NoError(t, err, "re-registration is tolerated")
}

func TestMultiSinkFanout(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	m := NewMultiSink(coremetrics.NopSink{}, prom)
	require.NoError(t, m.RecordDayResult(coremetrics.DayResultEvent{Valid: true}))
	require.NoError(t, m.RecordRun(coremetrics.RunEvent{RunID: "r1"}))

	assert.InDelta(t, 1.0, testutil.ToFloat64(prom.runs), 1e-9)
}

func TestFromConfigDefaultsToNop(t *testing.T) {
	sink, srv, err := FromConfig(coremetrics.Config{})
	require.NoError(t, err)
	assert.Nil(t, srv)
	assert.IsType(t, coremetrics.NopSink{}, sink)
}

package metrics

import (
	"time"

	"github.com/qmorane/tousim/core/model"
)

// DayResultEvent is a per-day simulation outcome to be recorded.
type DayResultEvent struct {
	RunID    string
	Date     time.Time
	Valid    bool
	Fallback bool
	Cycles   float64
	Profit   model.Profit

	MissingPrices int
}

// MetricsSink records simulation results for observability purposes.
type MetricsSink interface {
	RecordDayResult(ev DayResultEvent) error
}

// RunEvent summarises a completed simulation run.
type RunEvent struct {
	RunID     string
	Days      int
	ValidDays int
	Cycles    float64
	Profit    float64
	Duration  time.Duration
	Time      time.Time
}

// RunRecorder is implemented by sinks able to record run summaries.
type RunRecorder interface {
	RecordRun(ev RunEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordDayResult(DayResultEvent) error { return nil }

func (NopSink) RecordRun(RunEvent) error { return nil }

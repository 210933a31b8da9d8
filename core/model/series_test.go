package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(h, m int) time.Time {
	return time.Date(2024, time.June, 1, h, m, 0, 0, time.UTC)
}

func TestNewLoadSeriesCleansInput(t *testing.T) {
	raw := []LoadPoint{
		{Ts: ts(1, 0), LoadKW: 50},
		{Ts: ts(0, 0), LoadKW: 40},
		{Ts: ts(0, 30), LoadKW: math.NaN()},
		{Ts: ts(1, 0), LoadKW: 55},
		{Ts: ts(2, 0), LoadKW: math.Inf(1)},
	}
	s := NewLoadSeries(raw)

	require.Len(t, s.Points, 2)
	assert.Equal(t, 3, s.Dropped)
	assert.Equal(t, ts(0, 0), s.Points[0].Ts)
	assert.InDelta(t, 55.0, s.Points[1].LoadKW, 1e-9, "later duplicate wins")
}

func TestStepMinutesMedian(t *testing.T) {
	var raw []LoadPoint
	for i := 0; i < 10; i++ {
		raw = append(raw, LoadPoint{Ts: ts(0, 0).Add(time.Duration(i) * 15 * time.Minute), LoadKW: 1})
	}
	// One large gap must not skew the estimate.
	raw = append(raw, LoadPoint{Ts: ts(0, 0).Add(10 * time.Hour), LoadKW: 1})
	s := NewLoadSeries(raw)
	assert.InDelta(t, 15.0, s.StepMinutes(), 1e-9)
}

func TestStepMinutesDefault(t *testing.T) {
	s := NewLoadSeries([]LoadPoint{{Ts: ts(0, 0), LoadKW: 1}})
	assert.InDelta(t, 15.0, s.StepMinutes(), 1e-9)
}

func TestDaysSplit(t *testing.T) {
	raw := []LoadPoint{
		{Ts: time.Date(2024, time.June, 1, 23, 45, 0, 0, time.UTC), LoadKW: 1},
		{Ts: time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), LoadKW: 2},
		{Ts: time.Date(2024, time.June, 2, 0, 15, 0, 0, time.UTC), LoadKW: 3},
	}
	days := NewLoadSeries(raw).Days()

	require.Len(t, days, 2)
	assert.Len(t, days[0].Points, 1)
	assert.Len(t, days[1].Points, 2)
	assert.Equal(t, 2, days[1].Date.Day())
}

func TestDaySeriesValid(t *testing.T) {
	d := DaySeries{Points: []LoadPoint{{LoadKW: 0}, {LoadKW: 0}}}
	assert.False(t, d.Valid())
	d.Points = append(d.Points, LoadPoint{LoadKW: 0.1})
	assert.True(t, d.Valid())
}

func TestMonthlyDemandMax(t *testing.T) {
	raw := []LoadPoint{
		{Ts: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC), LoadKW: 120},
		{Ts: time.Date(2024, time.June, 20, 10, 0, 0, 0, time.UTC), LoadKW: 180},
		{Ts: time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC), LoadKW: 90},
	}
	m := NewLoadSeries(raw).MonthlyDemandMax()

	assert.InDelta(t, 180.0, m[202406], 1e-9)
	assert.InDelta(t, 90.0, m[202407], 1e-9)
}

package model

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// LoadPoint is one metered sample of site load.
type LoadPoint struct {
	Ts     time.Time `json:"ts"`
	LoadKW float64   `json:"load_kw"`
}

// LoadSeries is a cleaned, time-ordered run of load samples.
type LoadSeries struct {
	Points []LoadPoint

	// Dropped counts samples removed during cleaning (NaN, Inf, duplicate
	// timestamps).
	Dropped int
}

// NewLoadSeries sorts, deduplicates and filters raw samples. Later duplicates
// win. Non-finite loads are dropped and counted.
func NewLoadSeries(raw []LoadPoint) LoadSeries {
	pts := make([]LoadPoint, 0, len(raw))
	dropped := 0
	for _, p := range raw {
		if math.IsNaN(p.LoadKW) || math.IsInf(p.LoadKW, 0) {
			dropped++
			continue
		}
		pts = append(pts, p)
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Ts.Before(pts[j].Ts) })

	out := pts[:0]
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].Ts.Equal(p.Ts) {
			out[n-1] = p
			dropped++
			continue
		}
		out = append(out, p)
	}
	return LoadSeries{Points: out, Dropped: dropped}
}

// StepMinutes estimates the sampling interval as the median gap between
// consecutive samples. It returns 15 when the series is too short to tell.
func (s LoadSeries) StepMinutes() float64 {
	if len(s.Points) < 2 {
		return 15
	}
	gaps := make([]float64, 0, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		g := s.Points[i].Ts.Sub(s.Points[i-1].Ts).Minutes()
		if g > 0 {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) == 0 {
		return 15
	}
	sort.Float64s(gaps)
	return stat.Quantile(0.5, stat.Empirical, gaps, nil)
}

// Days splits the series into per-day slices keyed by civil date, in
// chronological order.
func (s LoadSeries) Days() []DaySeries {
	var out []DaySeries
	for _, p := range s.Points {
		d := civil(p.Ts)
		if n := len(out); n > 0 && out[n-1].Date.Equal(d) {
			out[n-1].Points = append(out[n-1].Points, p)
			continue
		}
		out = append(out, DaySeries{Date: d, Points: []LoadPoint{p}})
	}
	return out
}

// DaySeries holds the samples of one calendar day.
type DaySeries struct {
	Date   time.Time
	Points []LoadPoint
}

// Valid reports whether the day carries at least one strictly positive load
// sample. Invalid days still dispatch but are excluded from valid-day counts.
func (d DaySeries) Valid() bool {
	for _, p := range d.Points {
		if p.LoadKW > 0 {
			return true
		}
	}
	return false
}

// MonthlyDemandMax computes the per-month maximum load over the series,
// keyed by year*100+month.
func (s LoadSeries) MonthlyDemandMax() map[int]float64 {
	out := make(map[int]float64)
	for _, p := range s.Points {
		k := p.Ts.Year()*100 + int(p.Ts.Month())
		if v, ok := out[k]; !ok || p.LoadKW > v {
			out[k] = p.LoadKW
		}
	}
	return out
}

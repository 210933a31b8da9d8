// Package simulator produces synthetic scenarios for exercising the
// simulation engine without real meter exports.
package simulator

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/qmorane/tousim/core/model"
)

// Profile selects the synthetic load shape.
type Profile string

const (
	// ProfileOffice peaks during business hours on weekdays.
	ProfileOffice Profile = "office"
	// ProfileFactory runs two production shifts every day.
	ProfileFactory Profile = "factory"
	// ProfileFlat holds the base load around the clock.
	ProfileFlat Profile = "flat"
)

// Config holds parameters for scenario generation.
type Config struct {
	Start       time.Time
	Days        int
	StepMinutes int

	Profile    Profile
	BaseLoadKW float64
	SwingKW    float64
	NoiseKW    float64

	// Seed makes generation reproducible. Zero picks a time-based seed.
	Seed int64
}

// SetDefaults fills zero values with sane defaults.
func (c *Config) SetDefaults() {
	if c.Start.IsZero() {
		c.Start = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
	if c.Days <= 0 {
		c.Days = 30
	}
	if c.StepMinutes <= 0 {
		c.StepMinutes = 15
	}
	if c.Profile == "" {
		c.Profile = ProfileOffice
	}
	if c.BaseLoadKW <= 0 {
		c.BaseLoadKW = 300
	}
	if c.SwingKW < 0 {
		c.SwingKW = 0
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

// Generate builds a complete wire scenario: load points over the configured
// range, a schedule matrix with an overnight charge window and an evening
// discharge window, and the default tier prices for every month.
func Generate(cfg Config) model.Scenario {
	cfg.SetDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))

	var points []model.WirePoint
	step := time.Duration(cfg.StepMinutes) * time.Minute
	for d := 0; d < cfg.Days; d++ {
		day := cfg.Start.AddDate(0, 0, d)
		for ts := day; ts.Before(day.AddDate(0, 0, 1)); ts = ts.Add(step) {
			load := cfg.loadAt(ts)
			if cfg.NoiseKW > 0 {
				load += rng.NormFloat64() * cfg.NoiseKW
			}
			if load < 0 {
				load = 0
			}
			v := load
			points = append(points, model.WirePoint{TS: ts.Format(time.RFC3339), LoadKW: &v})
		}
	}

	matrix := make(map[string][]model.WireCell, 12)
	for m := 1; m <= 12; m++ {
		matrix[monthKey(m)] = defaultDay()
	}
	prices := make(map[string]map[string]float64, 12)
	for m := 1; m <= 12; m++ {
		tp := make(map[string]float64, len(model.AllTiers))
		for _, tier := range model.AllTiers {
			tp[tier.String()] = model.DefaultPrices[tier]
		}
		prices[monthKey(m)] = tp
	}

	return model.Scenario{Points: points, Matrix: matrix, Prices: prices}
}

func (c Config) loadAt(ts time.Time) float64 {
	h := float64(ts.Hour()) + float64(ts.Minute())/60
	switch c.Profile {
	case ProfileFactory:
		// Two shifts, 06-14 and 14-22, with a dip at changeover.
		if h >= 6 && h < 22 {
			dip := math.Exp(-math.Pow(h-14, 2) / 0.5)
			return c.BaseLoadKW + c.SwingKW*(1-0.4*dip)
		}
		return c.BaseLoadKW
	case ProfileFlat:
		return c.BaseLoadKW
	default:
		// Office: weekday business hours bell centered on 13h.
		wd := ts.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return c.BaseLoadKW
		}
		if h >= 7 && h < 20 {
			return c.BaseLoadKW + c.SwingKW*math.Sin(math.Pi*(h-7)/13)
		}
		return c.BaseLoadKW
	}
}

// defaultDay charges in the deep valley overnight and discharges across the
// evening peak, with standby elsewhere.
func defaultDay() []model.WireCell {
	cells := make([]model.WireCell, 24)
	for h := 0; h < 24; h++ {
		var tier model.TariffTier
		var op model.DispatchCode
		switch {
		case h < 6:
			tier, op = model.TierDeepValley, model.OpCharge
		case h >= 11 && h < 14:
			tier, op = model.TierValley, model.OpCharge
		case h >= 18 && h < 21:
			tier, op = model.TierSuperPeak, model.OpDischarge
		case h >= 21 && h < 23:
			tier, op = model.TierPeak, model.OpDischarge
		default:
			tier, op = model.TierFlat, model.OpStandby
		}
		cells[h] = model.WireCell{Tier: tier.String(), Op: op.String()}
	}
	return cells
}

func monthKey(m int) string {
	return strconv.Itoa(m)
}

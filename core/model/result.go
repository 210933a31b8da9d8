package model

import "time"

// Profit groups the money and energy totals of one accounting period.
type Profit struct {
	Revenue            float64 `json:"revenue"`
	Cost               float64 `json:"cost"`
	Profit             float64 `json:"profit"`
	DischargeEnergyKWh float64 `json:"discharge_energy_kwh"`
	ChargeEnergyKWh    float64 `json:"charge_energy_kwh"`
	ProfitPerKWh       float64 `json:"profit_per_kwh"`
}

// Finalize derives profit and per-kWh figures from the accumulated sums.
func (p *Profit) Finalize() {
	p.Profit = p.Revenue - p.Cost
	if p.DischargeEnergyKWh > 0 {
		p.ProfitPerKWh = p.Profit / p.DischargeEnergyKWh
	} else {
		p.ProfitPerKWh = 0
	}
}

// DailyResult is the full outcome of simulating one calendar day.
type DailyResult struct {
	Date  time.Time `json:"date"`
	Valid bool      `json:"valid"`

	Cycles        float64    `json:"cycles"`
	WindowCycles  [2]float64 `json:"window_cycles"`
	MissingPrices int        `json:"missing_prices"`

	// PeakDischargeKWh is the discharge delivered during super-peak and peak
	// hours, used for coverage reporting.
	PeakDischargeKWh float64 `json:"peak_discharge_kwh"`
	// PeakLoadKWh is the site consumption during those same hours.
	PeakLoadKWh float64 `json:"peak_load_kwh"`

	// ShavedPeakKW is the reduction of the maximum load across the day's
	// discharge hours, for demand shaving reporting.
	ShavedPeakKW float64 `json:"shaved_peak_kw"`

	Profit Profit `json:"profit"`
}

// MonthlyResult aggregates the days of one month by exact summation.
type MonthlyResult struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	Days      int        `json:"days"`
	ValidDays int        `json:"valid_days"`
	Cycles    float64    `json:"cycles"`
	Profit    Profit     `json:"profit"`
}

// YearlyResult aggregates the months of one year by exact summation.
type YearlyResult struct {
	Year      int     `json:"year"`
	Days      int     `json:"days"`
	ValidDays int     `json:"valid_days"`
	Cycles    float64 `json:"cycles"`
	Profit    Profit  `json:"profit"`
}

// QC records input cleaning and pricing anomalies for the run.
type QC struct {
	DroppedSamples     int     `json:"dropped_samples"`
	MissingPricePoints int     `json:"missing_price_points"`
	FallbackDays       int     `json:"fallback_days"`
	StepMinutes        float64 `json:"step_minutes"`
}

// RunResult is the complete output of one simulation run.
type RunResult struct {
	RunID string `json:"run_id"`

	Days   []DailyResult   `json:"days"`
	Months []MonthlyResult `json:"months"`
	Years  []YearlyResult  `json:"years"`

	QC QC `json:"qc"`
}

// CashflowYear is one row of the economics projection.
type CashflowYear struct {
	Year            int     `json:"year"`
	EnergyKWh       float64 `json:"energy_kwh"`
	Revenue         float64 `json:"revenue"`
	OMCost          float64 `json:"om_cost"`
	ReplacementCost float64 `json:"replacement_cost"`
	Net             float64 `json:"net"`
	Cumulative      float64 `json:"cumulative"`
}

// EconomicsResult is the output of the multi-year projection.
type EconomicsResult struct {
	CapexTotal    float64        `json:"capex_total"`
	Cashflows     []CashflowYear `json:"cashflows"`
	IRR           float64        `json:"irr"`
	IRRConverged  bool           `json:"irr_converged"`
	PaybackYears  float64        `json:"payback_years"`
	PaybackFound  bool           `json:"payback_found"`
	LCOE          float64        `json:"lcoe"`
	StaticLCOE    float64        `json:"static_lcoe"`
	LCOERatio     float64        `json:"lcoe_ratio"`
	ScreeningPass bool           `json:"screening_pass"`
}

package model

import "fmt"

// LimitMode selects where the import ceiling for a day comes from.
type LimitMode string

const (
	// LimitDemand takes the ceiling from the recorded monthly demand maximum.
	LimitDemand LimitMode = "demand"
	// LimitTransformer takes the ceiling from transformer capacity times a
	// utilisation ratio.
	LimitTransformer LimitMode = "transformer"
)

// StorageParams describes the battery system under simulation.
type StorageParams struct {
	CapacityKWh float64 `json:"capacity_kwh" koanf:"capacity_kwh"`
	CRate       float64 `json:"c_rate" koanf:"c_rate"`
	Efficiency  float64 `json:"efficiency" koanf:"efficiency"`
	DOD         float64 `json:"dod" koanf:"dod"`
	SOCMin      float64 `json:"soc_min" koanf:"soc_min"`
	SOCMax      float64 `json:"soc_max" koanf:"soc_max"`

	ReserveChargeKW    float64 `json:"reserve_charge_kw" koanf:"reserve_charge_kw"`
	ReserveDischargeKW float64 `json:"reserve_discharge_kw" koanf:"reserve_discharge_kw"`

	LimitMode        LimitMode `json:"limit_mode" koanf:"limit_mode"`
	TransformerKVA   float64   `json:"transformer_kva" koanf:"transformer_kva"`
	TransformerRatio float64   `json:"transformer_ratio" koanf:"transformer_ratio"`

	// SOCCarryover keeps the state of charge across same-day windows when
	// true; when false each window starts at SOCMin.
	SOCCarryover bool `json:"soc_carryover" koanf:"soc_carryover"`

	MergeThresholdMinutes int `json:"merge_threshold_minutes" koanf:"merge_threshold_minutes"`
}

// MaxPowerKW is the C-rate power ceiling.
func (p StorageParams) MaxPowerKW() float64 {
	return p.CapacityKWh * p.CRate
}

// EffectiveDOD returns the depth of discharge usable inside the SOC band.
func (p StorageParams) EffectiveDOD() float64 {
	dod := p.DOD
	if band := p.SOCMax - p.SOCMin; dod > band {
		dod = band
	}
	if dod < 0 {
		return 0
	}
	return dod
}

// SetDefaults fills zero values with sane defaults.
func (p *StorageParams) SetDefaults() {
	if p.LimitMode == "" {
		p.LimitMode = LimitDemand
	}
}

// Validate rejects parameter sets the solver cannot work with.
func (p StorageParams) Validate() error {
	if p.CapacityKWh < 0 {
		return fmt.Errorf("capacity_kwh must be >= 0, got %v", p.CapacityKWh)
	}
	if p.CRate < 0 {
		return fmt.Errorf("c_rate must be >= 0, got %v", p.CRate)
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return fmt.Errorf("efficiency must be in (0, 1], got %v", p.Efficiency)
	}
	if p.DOD < 0 || p.DOD > 1 {
		return fmt.Errorf("dod must be in [0, 1], got %v", p.DOD)
	}
	if p.SOCMin < 0 || p.SOCMax > 1 || p.SOCMin > p.SOCMax {
		return fmt.Errorf("soc bounds must satisfy 0 <= soc_min <= soc_max <= 1, got [%v, %v]", p.SOCMin, p.SOCMax)
	}
	if p.ReserveChargeKW < 0 || p.ReserveDischargeKW < 0 {
		return fmt.Errorf("reserve margins must be >= 0")
	}
	switch p.LimitMode {
	case LimitDemand:
	case LimitTransformer:
		if p.TransformerKVA <= 0 {
			return fmt.Errorf("transformer_kva must be > 0 in transformer mode, got %v", p.TransformerKVA)
		}
		if p.TransformerRatio <= 0 || p.TransformerRatio > 1 {
			return fmt.Errorf("transformer_ratio must be in (0, 1], got %v", p.TransformerRatio)
		}
	default:
		return fmt.Errorf("unknown limit_mode %q", p.LimitMode)
	}
	if p.MergeThresholdMinutes < 0 {
		return fmt.Errorf("merge_threshold_minutes must be >= 0, got %d", p.MergeThresholdMinutes)
	}
	return nil
}

// EconomicsParams drives the multi-year cashflow projection.
type EconomicsParams struct {
	ProjectYears int     `json:"project_years" koanf:"project_years"`
	CapexPerWh   float64 `json:"capex_per_wh" koanf:"capex_per_wh"`
	OMPerKWhYear float64 `json:"om_per_kwh_year" koanf:"om_per_kwh_year"`

	FirstYearDecay  float64 `json:"first_year_decay" koanf:"first_year_decay"`
	SubsequentDecay float64 `json:"subsequent_decay" koanf:"subsequent_decay"`

	// ReplacementYears lists the project years (1-based) at which cells are
	// replaced. A replacement resets the decay phase and charges its cost.
	ReplacementYears     []int   `json:"replacement_years" koanf:"replacement_years"`
	ReplacementCostPerWh float64 `json:"replacement_cost_per_wh" koanf:"replacement_cost_per_wh"`

	// RevenueShare is the owner's fraction of annual profit.
	RevenueShare float64 `json:"revenue_share" koanf:"revenue_share"`

	DiscountRate float64 `json:"discount_rate" koanf:"discount_rate"`
}

// CapexTotal converts the per-Wh unit cost to the project total.
func (e EconomicsParams) CapexTotal(capacityKWh float64) float64 {
	return e.CapexPerWh * capacityKWh * 1000
}

// Validate rejects projection inputs outside their meaningful ranges.
func (e EconomicsParams) Validate() error {
	if e.ProjectYears <= 0 {
		return fmt.Errorf("project_years must be > 0, got %d", e.ProjectYears)
	}
	if e.CapexPerWh < 0 || e.OMPerKWhYear < 0 || e.ReplacementCostPerWh < 0 {
		return fmt.Errorf("costs must be >= 0")
	}
	if e.FirstYearDecay < 0 || e.FirstYearDecay >= 1 {
		return fmt.Errorf("first_year_decay must be in [0, 1), got %v", e.FirstYearDecay)
	}
	if e.SubsequentDecay < 0 || e.SubsequentDecay >= 1 {
		return fmt.Errorf("subsequent_decay must be in [0, 1), got %v", e.SubsequentDecay)
	}
	if e.RevenueShare <= 0 || e.RevenueShare > 1 {
		return fmt.Errorf("revenue_share must be in (0, 1], got %v", e.RevenueShare)
	}
	for _, y := range e.ReplacementYears {
		if y < 1 || y > e.ProjectYears {
			return fmt.Errorf("replacement year %d outside project horizon", y)
		}
	}
	return nil
}

package economics

import (
	"errors"

	"github.com/qmorane/tousim/core/model"
)

// ErrBeyondHorizon is returned when cumulative cashflow never recovers the
// investment inside the project horizon.
var ErrBeyondHorizon = errors.New("payback exceeds project horizon")

// screeningThreshold is the minimum revenue-to-LCOE ratio considered viable
// in the quick static screening.
const screeningThreshold = 1.5

// Input carries the first-year operating outcome the projection scales from.
type Input struct {
	FirstYearRevenue   float64
	FirstYearEnergyKWh float64
	CapacityKWh        float64
}

// Projector turns a first-year result into a multi-year cashflow with
// degradation, optional cell replacement, and the derived investment metrics.
type Projector struct {
	p model.EconomicsParams
}

func NewProjector(p model.EconomicsParams) Projector {
	return Projector{p: p}
}

// decayFactor models degradation in phases. Every phase's first year takes
// the first-year decay once, then the subsequent rate compounds per elapsed
// year. A cell replacement starts a new phase.
func (pr Projector) decayFactor(yearsInPhase int) float64 {
	f := 1 - pr.p.FirstYearDecay
	for i := 0; i < yearsInPhase; i++ {
		f *= 1 - pr.p.SubsequentDecay
	}
	return f
}

func (pr Projector) replacementAt(year int) bool {
	for _, y := range pr.p.ReplacementYears {
		if y == year {
			return true
		}
	}
	return false
}

// Project builds the full cashflow table and metrics. The LCOE reported here
// follows the undiscounted convention: all cash costs over the horizon
// (capex, O&M, replacements) divided by total delivered energy.
func (pr Projector) Project(in Input) model.EconomicsResult {
	p := pr.p
	capex := p.CapexTotal(in.CapacityKWh)
	omCost := p.OMPerKWhYear * in.CapacityKWh

	res := model.EconomicsResult{CapexTotal: capex}
	res.Cashflows = make([]model.CashflowYear, 0, p.ProjectYears)

	phaseStart := 1
	cumulative := 0.0
	totalEnergy, totalRevenue, totalCost := 0.0, 0.0, capex
	for year := 1; year <= p.ProjectYears; year++ {
		replacement := 0.0
		if year > 1 && pr.replacementAt(year) {
			replacement = p.ReplacementCostPerWh * in.CapacityKWh * 1000
			phaseStart = year
		}
		f := pr.decayFactor(year - phaseStart)

		energy := in.FirstYearEnergyKWh * f
		revenue := in.FirstYearRevenue * f * p.RevenueShare
		net := revenue - omCost - replacement
		cumulative += net

		totalEnergy += energy
		totalRevenue += revenue
		totalCost += omCost + replacement

		res.Cashflows = append(res.Cashflows, model.CashflowYear{
			Year:            year,
			EnergyKWh:       energy,
			Revenue:         revenue,
			OMCost:          omCost,
			ReplacementCost: replacement,
			Net:             net,
			Cumulative:      cumulative,
		})
	}

	if payback, err := pr.payback(res.Cashflows, capex); err == nil {
		res.PaybackYears = payback
		res.PaybackFound = true
	}

	flows := make([]float64, 0, p.ProjectYears+1)
	flows = append(flows, -capex)
	for _, cf := range res.Cashflows {
		flows = append(flows, cf.Net)
	}
	if irr, err := SolveIRR(flows); err == nil {
		res.IRR = irr
		res.IRRConverged = true
	}

	if totalEnergy > 0 {
		res.LCOE = totalCost / totalEnergy
	}
	pr.staticScreening(&res, totalEnergy, totalRevenue)
	return res
}

// payback returns the first point where cumulative net cashflow recovers the
// investment, interpolated linearly within the crossing year.
func (pr Projector) payback(flows []model.CashflowYear, capex float64) (float64, error) {
	if capex <= 0 {
		return 0, nil
	}
	prev := 0.0
	for _, cf := range flows {
		if cf.Cumulative >= capex {
			if cf.Net > 0 {
				shortfall := capex - prev
				return float64(cf.Year-1) + shortfall/cf.Net, nil
			}
			return float64(cf.Year), nil
		}
		prev = cf.Cumulative
	}
	return 0, ErrBeyondHorizon
}

// staticScreening fills the quick-look viability figures: average-year LCOE
// against average per-kWh revenue.
func (pr Projector) staticScreening(res *model.EconomicsResult, totalEnergy, totalRevenue float64) {
	years := float64(pr.p.ProjectYears)
	if res.CapexTotal <= 0 || years <= 0 || totalEnergy <= 0 {
		return
	}
	annualEnergy := totalEnergy / years
	annualRevenue := totalRevenue / years

	res.StaticLCOE = res.CapexTotal / (annualEnergy * years)
	revenuePerKWh := annualRevenue / annualEnergy
	if res.StaticLCOE > 0 {
		res.LCOERatio = revenuePerKWh / res.StaticLCOE
	}
	res.ScreeningPass = res.LCOERatio >= screeningThreshold
}

package power

import "github.com/qmorane/tousim/core/model"

// WindowBaseEnergy computes the battery-side base energy of one dispatch
// window using the window-average method: the mean load over the window's
// samples sets the allowed power, and duration is the sampled time actually
// covered. The result feeds cycle accounting, not revenue.
func WindowBaseEnergy(points []model.LoadPoint, hours []int, isCharge bool, limitKW float64, p model.StorageParams, stepHours float64) float64 {
	if len(hours) == 0 {
		return 0
	}
	inWindow := make(map[int]bool, len(hours))
	for _, h := range hours {
		inWindow[h] = true
	}
	var sum float64
	n := 0
	for _, pt := range points {
		if inWindow[pt.Ts.Hour()] {
			sum += pt.LoadKW
			n++
		}
	}
	if n == 0 {
		return 0
	}
	avg := sum / float64(n)

	var allow float64
	if isCharge {
		allow = limitKW - p.ReserveChargeKW - avg
	} else {
		allow = avg - p.ReserveDischargeKW
	}
	if allow < 0 {
		allow = 0
	}
	if pMax := p.MaxPowerKW(); allow > pMax {
		allow = pMax
	}
	return allow * float64(n) * stepHours
}

// StepResult is the outcome of solving one time step.
type StepResult struct {
	// PBattKW is battery-side power, positive charging, negative discharging.
	PBattKW float64
	// EInKWh and EOutKWh are grid-side energies for the step.
	EInKWh  float64
	EOutKWh float64
	// PGridKW is the net grid-side power effect, positive drawing from grid.
	PGridKW float64
	// SOC is the state of charge after the step.
	SOC float64
}

// StepSolver applies the per-step constraint stack while tracking state of
// charge across steps. It is single-goroutine state owned by the day loop.
type StepSolver struct {
	p       model.StorageParams
	dtHours float64
	soc     float64
}

// NewStepSolver creates a solver starting at the empty state soc_min.
func NewStepSolver(p model.StorageParams, stepMinutes float64) *StepSolver {
	return &StepSolver{p: p, dtHours: stepMinutes / 60, soc: p.SOCMin}
}

// SOC returns the current state of charge.
func (s *StepSolver) SOC() float64 { return s.soc }

// Reset returns the battery to the empty state, used at window boundaries
// when carryover is disabled.
func (s *StepSolver) Reset() { s.soc = s.p.SOCMin }

// Step solves one time step. Constraint layers apply in order: limit
// headroom with reserve margin, C-rate power cap, SOC bounds on the battery
// side, then the transformer and no-export clamps on the grid-side effect.
func (s *StepSolver) Step(op model.DispatchCode, loadKW, limitKW float64) StepResult {
	p := s.p
	dod := p.EffectiveDOD()
	eta := p.Efficiency
	pMax := p.MaxPowerKW()

	var pBatt float64
	switch op {
	case model.OpCharge:
		raw := limitKW - p.ReserveChargeKW - loadKW
		if raw < 0 {
			raw = 0
		}
		if raw > pMax {
			raw = pMax
		}
		if s.dtHours > 0 {
			if avail := (p.SOCMax - s.soc) * p.CapacityKWh / s.dtHours; raw > avail {
				raw = avail
			}
		}
		pBatt = raw
	case model.OpDischarge:
		raw := loadKW - p.ReserveDischargeKW
		if raw < 0 {
			raw = 0
		}
		if raw > pMax {
			raw = pMax
		}
		if s.dtHours > 0 {
			if avail := (s.soc - p.SOCMin) * p.CapacityKWh / s.dtHours; raw > avail {
				raw = avail
			}
		}
		pBatt = -raw
	}

	var eIn, eOut float64
	if pBatt > 0 {
		eIn = pBatt * s.dtHours * dod / maxf(eta, 1e-9)
	} else if pBatt < 0 {
		eOut = -pBatt * s.dtHours * dod * eta
	}
	pGrid := 0.0
	if s.dtHours > 0 {
		pGrid = (eIn - eOut) / s.dtHours
	}

	// In transformer mode charging must not push total site load above the
	// ceiling. A load already above the ceiling is left alone; only the
	// battery's own contribution is scaled back.
	if p.LimitMode == model.LimitTransformer && limitKW > 0 && loadKW < limitKW && pGrid > 0 {
		if loadKW+pGrid > limitKW+1e-6 {
			scale := (limitKW - loadKW) / pGrid
			if scale < 0 {
				scale = 0
			}
			pBatt, eIn, eOut, pGrid = pBatt*scale, eIn*scale, eOut*scale, pGrid*scale
		}
	}

	// No export: post-storage site load must stay non-negative with the
	// discharge reserve kept.
	if loadKW > 0 && -pGrid > 0 {
		allowed := loadKW - p.ReserveDischargeKW
		if allowed < 0 {
			allowed = 0
		}
		if -pGrid > allowed+1e-6 {
			scale := 0.0
			if allowed > 0 {
				scale = allowed / -pGrid
			}
			pBatt, eIn, eOut, pGrid = pBatt*scale, eIn*scale, eOut*scale, pGrid*scale
		}
	}

	if p.CapacityKWh > 0 {
		s.soc += pBatt * s.dtHours / p.CapacityKWh
		if s.soc < p.SOCMin {
			s.soc = p.SOCMin
		}
		if s.soc > p.SOCMax {
			s.soc = p.SOCMax
		}
	}

	return StepResult{PBattKW: pBatt, EInKWh: eIn, EOutKWh: eOut, PGridKW: pGrid, SOC: s.soc}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

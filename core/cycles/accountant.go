package cycles

import (
	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/core/power"
	"github.com/qmorane/tousim/core/schedule"
)

// Accountant converts window-level battery-side energy into grid-side energy
// and equivalent cycle counts. It uses the window-average method, which is
// the accounting view; revenue uses the per-step solver instead.
type Accountant struct {
	p model.StorageParams
}

func NewAccountant(p model.StorageParams) Accountant {
	return Accountant{p: p}
}

// GridCharge converts battery-side base energy to the grid-side energy drawn
// while charging. Round-trip loss is charged entirely against this leg.
func (a Accountant) GridCharge(baseKWh float64) float64 {
	eta := a.p.Efficiency
	if eta < 1e-9 {
		eta = 1e-9
	}
	return baseKWh * a.p.EffectiveDOD() / eta
}

// GridDischarge converts battery-side base energy to the grid-side energy
// delivered while discharging.
func (a Accountant) GridDischarge(baseKWh float64) float64 {
	return baseKWh * a.p.EffectiveDOD() * a.p.Efficiency
}

// WindowContribution computes the fractional cycle of one charge/discharge
// window pair. Each leg's full ratio is clipped to 1 and the pair contributes
// the smaller of the two. Zero capacity contributes 0.
func (a Accountant) WindowContribution(eInGrid, eOutGrid float64) float64 {
	cap := a.p.CapacityKWh
	if cap <= 0 {
		return 0
	}
	fc := eInGrid / cap
	if fc > 1 {
		fc = 1
	}
	fd := eOutGrid / cap
	if fd > 1 {
		fd = 1
	}
	if fc < fd {
		return fc
	}
	return fd
}

// DayCycles computes the equivalent cycles of one day from its dispatch
// windows and load samples. Slot 1 windows pair into the first cycle, slot 2
// into the second; unslotted runs do not count. A day with no usable limit
// yields 0.
func (a Accountant) DayCycles(dw schedule.DayWindows, points []model.LoadPoint, limitKW, stepHours float64) (float64, [2]float64) {
	var per [2]float64
	if limitKW <= 0 || a.p.CapacityKWh <= 0 {
		return 0, per
	}
	for slot := 1; slot <= 2; slot++ {
		var chargeBase, dischargeBase float64
		if w, ok := dw.Primary(model.OpCharge, slot); ok {
			chargeBase = power.WindowBaseEnergy(points, w.Hours, true, limitKW, a.p, stepHours)
		}
		if w, ok := dw.Primary(model.OpDischarge, slot); ok {
			dischargeBase = power.WindowBaseEnergy(points, w.Hours, false, limitKW, a.p, stepHours)
		}
		per[slot-1] = a.WindowContribution(a.GridCharge(chargeBase), a.GridDischarge(dischargeBase))
	}
	return per[0] + per[1], per
}

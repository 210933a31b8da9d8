package revenue

import (
	"time"

	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/core/power"
	"github.com/qmorane/tousim/core/schedule"
)

// DayInput bundles everything needed to price one calendar day.
type DayInput struct {
	Date    time.Time
	Points  []model.LoadPoint
	Sched   model.Schedule24
	Windows schedule.DayWindows
	LimitKW float64
}

// DayOutcome is the priced result of one day, before aggregation.
type DayOutcome struct {
	Profit        model.Profit
	MissingPrices int

	PeakDischargeKWh float64
	PeakLoadKWh      float64
	ShavedPeakKW     float64
}

// ComputeDay walks the day's samples and prices each step with its own
// tier price. Every step is solved through the per-step constraint stack;
// a window average is never substituted here because the step's price, not
// an averaged one, decides money moved. The solver is shared across calls so
// state of charge carries between days; when carryover is disabled it resets
// at each window start instead.
func ComputeDay(solver *power.StepSolver, p model.StorageParams, prices model.PriceMap, in DayInput) DayOutcome {
	var out DayOutcome

	windowStarts := make(map[int]bool, len(in.Windows.All))
	for _, w := range in.Windows.All {
		if len(w.Hours) > 0 {
			windowStarts[w.Hours[0]] = true
		}
	}
	dispatchHours := make(map[int]bool)
	for _, w := range in.Windows.All {
		for _, h := range w.Hours {
			dispatchHours[h] = true
		}
	}

	stepH := 0.25
	if len(in.Points) > 1 {
		// Keep step duration consistent with the solver's.
		stepH = in.Points[1].Ts.Sub(in.Points[0].Ts).Hours()
		if stepH <= 0 {
			stepH = 0.25
		}
	}

	var origPeak, postPeak float64
	prevHour := -1
	for _, pt := range in.Points {
		h := pt.Ts.Hour()
		cell := in.Sched[h]
		op := cell.Op
		// Runs dropped by the merge threshold do not dispatch.
		if op != model.OpStandby && !dispatchHours[h] {
			op = model.OpStandby
		}

		if !p.SOCCarryover && h != prevHour && windowStarts[h] {
			solver.Reset()
		}
		prevHour = h

		res := solver.Step(op, pt.LoadKW, in.LimitKW)

		price, explicit := prices.Price(in.Date.Month(), cell.Tier)
		if !explicit && op != model.OpStandby {
			out.MissingPrices++
		}

		out.Profit.Revenue += res.EOutKWh * price
		out.Profit.Cost += res.EInKWh * price
		out.Profit.ChargeEnergyKWh += res.EInKWh
		out.Profit.DischargeEnergyKWh += res.EOutKWh

		if cell.Tier == model.TierSuperPeak || cell.Tier == model.TierPeak {
			out.PeakDischargeKWh += res.EOutKWh
			out.PeakLoadKWh += pt.LoadKW * stepH
		}

		// Shaving is judged over discharge hours only; charging raising the
		// off-peak draw is expected and not counted against it.
		if op == model.OpDischarge {
			if pt.LoadKW > origPeak {
				origPeak = pt.LoadKW
			}
			if post := pt.LoadKW + res.PGridKW; post > postPeak {
				postPeak = post
			}
		}
	}

	out.ShavedPeakKW = origPeak - postPeak
	out.Profit.Finalize()
	return out
}

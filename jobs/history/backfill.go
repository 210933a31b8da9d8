package history

import (
	"time"

	core "github.com/qmorane/tousim/core/history"
	"github.com/qmorane/tousim/core/model"
)

// Backfill writes a completed run result into the store.
func Backfill(store core.Store, res *model.RunResult) error {
	var cycles, profit float64
	var validDays int
	for _, d := range res.Days {
		if d.Valid {
			validDays++
		}
		cycles += d.Cycles
		profit += d.Profit.Profit
		rec := core.DayRecord{
			RunID:              res.RunID,
			Date:               core.Day(d.Date),
			Valid:              d.Valid,
			Cycles:             d.Cycles,
			Revenue:            d.Profit.Revenue,
			Cost:               d.Profit.Cost,
			Profit:             d.Profit.Profit,
			ChargeEnergyKWh:    d.Profit.ChargeEnergyKWh,
			DischargeEnergyKWh: d.Profit.DischargeEnergyKWh,
		}
		if err := store.AddDay(rec); err != nil {
			return err
		}
	}
	return store.AddRun(core.RunSummary{
		RunID:     res.RunID,
		CreatedAt: time.Now().UTC(),
		Days:      len(res.Days),
		ValidDays: validDays,
		Cycles:    cycles,
		Profit:    profit,
	})
}

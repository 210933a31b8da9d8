package revenue

import (
	"gonum.org/v1/gonum/floats"

	"github.com/qmorane/tousim/core/model"
)

// BuildMonthly groups day results into months by exact summation of the day
// figures. Nothing is recomputed from averaged prices.
func BuildMonthly(days []model.DailyResult) []model.MonthlyResult {
	var out []model.MonthlyResult
	var cur *model.MonthlyResult
	var profits, revenues, costs []float64

	flush := func() {
		if cur == nil {
			return
		}
		cur.Profit.Revenue = floats.Sum(revenues)
		cur.Profit.Cost = floats.Sum(costs)
		cur.Profit.Profit = floats.Sum(profits)
		if cur.Profit.DischargeEnergyKWh > 0 {
			cur.Profit.ProfitPerKWh = cur.Profit.Profit / cur.Profit.DischargeEnergyKWh
		}
		out = append(out, *cur)
		cur = nil
	}

	for _, d := range days {
		y, m := d.Date.Year(), d.Date.Month()
		if cur == nil || cur.Year != y || cur.Month != m {
			flush()
			cur = &model.MonthlyResult{Year: y, Month: m}
			profits, revenues, costs = profits[:0], revenues[:0], costs[:0]
		}
		cur.Days++
		if d.Valid {
			cur.ValidDays++
		}
		cur.Cycles += d.Cycles
		cur.Profit.ChargeEnergyKWh += d.Profit.ChargeEnergyKWh
		cur.Profit.DischargeEnergyKWh += d.Profit.DischargeEnergyKWh
		profits = append(profits, d.Profit.Profit)
		revenues = append(revenues, d.Profit.Revenue)
		costs = append(costs, d.Profit.Cost)
	}
	flush()
	return out
}

// BuildYearly rolls monthly results up to years, again by plain summation.
func BuildYearly(months []model.MonthlyResult) []model.YearlyResult {
	var out []model.YearlyResult
	var cur *model.YearlyResult

	flush := func() {
		if cur == nil {
			return
		}
		if cur.Profit.DischargeEnergyKWh > 0 {
			cur.Profit.ProfitPerKWh = cur.Profit.Profit / cur.Profit.DischargeEnergyKWh
		}
		out = append(out, *cur)
		cur = nil
	}

	for _, m := range months {
		if cur == nil || cur.Year != m.Year {
			flush()
			cur = &model.YearlyResult{Year: m.Year}
		}
		cur.Days += m.Days
		cur.ValidDays += m.ValidDays
		cur.Cycles += m.Cycles
		cur.Profit.Revenue += m.Profit.Revenue
		cur.Profit.Cost += m.Profit.Cost
		// Profit stays the sum of day profits, never revenue minus cost
		// recomputed at this level.
		cur.Profit.Profit += m.Profit.Profit
		cur.Profit.ChargeEnergyKWh += m.Profit.ChargeEnergyKWh
		cur.Profit.DischargeEnergyKWh += m.Profit.DischargeEnergyKWh
	}
	flush()
	return out
}

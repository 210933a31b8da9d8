package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/qmorane/tousim/core/model"
)

// WriteRunJSON writes the full simulation result to w in JSON format.
func WriteRunJSON(w io.Writer, res *model.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteEconomicsJSON writes the cashflow projection to w in JSON format.
func WriteEconomicsJSON(w io.Writer, res *model.EconomicsResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteDaysCSV writes one row per simulated day.
func WriteDaysCSV(w io.Writer, days []model.DailyResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"date", "valid", "cycles", "cycles_slot1", "cycles_slot2",
		"revenue", "cost", "profit", "charge_kwh", "discharge_kwh",
		"peak_discharge_kwh", "peak_load_kwh", "shaved_peak_kw", "missing_prices",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range days {
		rec := []string{
			d.Date.Format("2006-01-02"),
			strconv.FormatBool(d.Valid),
			ffloat(d.Cycles),
			ffloat(d.WindowCycles[0]),
			ffloat(d.WindowCycles[1]),
			ffloat(d.Profit.Revenue),
			ffloat(d.Profit.Cost),
			ffloat(d.Profit.Profit),
			ffloat(d.Profit.ChargeEnergyKWh),
			ffloat(d.Profit.DischargeEnergyKWh),
			ffloat(d.PeakDischargeKWh),
			ffloat(d.PeakLoadKWh),
			ffloat(d.ShavedPeakKW),
			strconv.Itoa(d.MissingPrices),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonthsCSV writes one row per simulated month.
func WriteMonthsCSV(w io.Writer, months []model.MonthlyResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"year", "month", "days", "valid_days", "cycles",
		"revenue", "cost", "profit", "charge_kwh", "discharge_kwh", "profit_per_kwh",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range months {
		rec := []string{
			strconv.Itoa(m.Year),
			strconv.Itoa(int(m.Month)),
			strconv.Itoa(m.Days),
			strconv.Itoa(m.ValidDays),
			ffloat(m.Cycles),
			ffloat(m.Profit.Revenue),
			ffloat(m.Profit.Cost),
			ffloat(m.Profit.Profit),
			ffloat(m.Profit.ChargeEnergyKWh),
			ffloat(m.Profit.DischargeEnergyKWh),
			ffloat(m.Profit.ProfitPerKWh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteYearsCSV writes one row per simulated year.
func WriteYearsCSV(w io.Writer, years []model.YearlyResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"year", "days", "valid_days", "cycles",
		"revenue", "cost", "profit", "charge_kwh", "discharge_kwh", "profit_per_kwh",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, y := range years {
		rec := []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Days),
			strconv.Itoa(y.ValidDays),
			ffloat(y.Cycles),
			ffloat(y.Profit.Revenue),
			ffloat(y.Profit.Cost),
			ffloat(y.Profit.Profit),
			ffloat(y.Profit.ChargeEnergyKWh),
			ffloat(y.Profit.DischargeEnergyKWh),
			ffloat(y.Profit.ProfitPerKWh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCashflowsCSV writes one row per projection year.
func WriteCashflowsCSV(w io.Writer, flows []model.CashflowYear) error {
	cw := csv.NewWriter(w)
	header := []string{
		"year", "energy_kwh", "revenue", "om_cost", "replacement_cost", "net", "cumulative",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, f := range flows {
		rec := []string{
			strconv.Itoa(f.Year),
			ffloat(f.EnergyKWh),
			ffloat(f.Revenue),
			ffloat(f.OMCost),
			ffloat(f.ReplacementCost),
			ffloat(f.Net),
			ffloat(f.Cumulative),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ffloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

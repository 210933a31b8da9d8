package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qmorane/tousim/core/model"
)

func day(y int, m time.Month, d int, profit, cycles float64, valid bool) model.DailyResult {
	r := model.DailyResult{
		Date:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Valid:  valid,
		Cycles: cycles,
	}
	r.Profit.Revenue = profit + 10
	r.Profit.Cost = 10
	r.Profit.Profit = profit
	r.Profit.DischargeEnergyKWh = 5
	return r
}

func TestBuildMonthlyGroupsAndCounts(t *testing.T) {
	days := []model.DailyResult{
		day(2024, time.January, 1, 1.5, 1, true),
		day(2024, time.January, 2, 2.5, 2, false),
		day(2024, time.February, 1, 4, 0.5, true),
	}
	months := BuildMonthly(days)

	assert.Len(t, months, 2)
	jan := months[0]
	assert.Equal(t, 2, jan.Days)
	assert.Equal(t, 1, jan.ValidDays)
	assert.InDelta(t, 4.0, jan.Profit.Profit, 1e-12)
	assert.InDelta(t, 3.0, jan.Cycles, 1e-12)
	assert.InDelta(t, 10.0, jan.Profit.DischargeEnergyKWh, 1e-12)
	assert.Equal(t, time.February, months[1].Month)
}

func TestBuildYearlySumsDayProfitsExactly(t *testing.T) {
	var days []model.DailyResult
	want := 0.0
	for _, m := range []time.Month{time.March, time.April} {
		for d := 1; d <= 28; d++ {
			p := 0.1*float64(d) + float64(m)*0.01
			days = append(days, day(2024, m, d, p, 0.5, true))
		}
	}
	for _, m := range BuildMonthly(days) {
		want += m.Profit.Profit
	}

	years := BuildYearly(BuildMonthly(days))
	assert.Len(t, years, 1)
	assert.Equal(t, 56, years[0].Days)
	assert.Equal(t, years[0].Profit.Profit, want, "year profit is the exact sum of month profits")
}

func TestBuildYearlySplitsYears(t *testing.T) {
	days := []model.DailyResult{
		day(2024, time.December, 31, 1, 0.5, true),
		day(2025, time.January, 1, 2, 0.5, true),
	}
	years := BuildYearly(BuildMonthly(days))
	assert.Len(t, years, 2)
	assert.Equal(t, 2024, years[0].Year)
	assert.Equal(t, 2025, years[1].Year)
}

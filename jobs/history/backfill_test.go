package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/qmorane/tousim/core/history"
	"github.com/qmorane/tousim/core/model"
)

type memStore struct {
	runs []core.RunSummary
	days []core.DayRecord
}

func (m *memStore) AddRun(r core.RunSummary) error { m.runs = append(m.runs, r); return nil }
func (m *memStore) AddDay(r core.DayRecord) error  { m.days = append(m.days, r); return nil }
func (m *memStore) Runs() ([]core.RunSummary, error) {
	return m.runs, nil
}
func (m *memStore) Days(string, time.Time, time.Time) ([]core.DayRecord, error) {
	return m.days, nil
}
func (m *memStore) Close() error { return nil }

func TestBackfill(t *testing.T) {
	res := &model.RunResult{RunID: "r1"}
	for d := 1; d <= 3; d++ {
		res.Days = append(res.Days, model.DailyResult{
			Date:   time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC),
			Valid:  d != 2,
			Cycles: 0.5,
			Profit: model.Profit{Revenue: 30, Cost: 10, Profit: 20, ChargeEnergyKWh: 25, DischargeEnergyKWh: 20},
		})
	}

	st := &memStore{}
	require.NoError(t, Backfill(st, res))

	require.Len(t, st.days, 3)
	assert.Equal(t, "r1", st.days[0].RunID)
	assert.InDelta(t, 20, st.days[0].Profit, 1e-9)

	require.Len(t, st.runs, 1)
	assert.Equal(t, 3, st.runs[0].Days)
	assert.Equal(t, 2, st.runs[0].ValidDays)
	assert.InDelta(t, 1.5, st.runs[0].Cycles, 1e-9)
	assert.InDelta(t, 60, st.runs[0].Profit, 1e-9)
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierRoundTrip(t *testing.T) {
	for _, tier := range AllTiers {
		b, err := json.Marshal(tier)
		require.NoError(t, err)
		var back TariffTier
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, tier, back)
	}

	var bad TariffTier
	assert.Error(t, json.Unmarshal([]byte(`"blue"`), &bad))
}

func TestParseOp(t *testing.T) {
	op, err := ParseOp("discharge")
	require.NoError(t, err)
	assert.Equal(t, OpDischarge, op)
	_, err = ParseOp("idle")
	assert.Error(t, err)
}

func TestScheduleMatrixRow(t *testing.T) {
	var m ScheduleMatrix
	day := StandbyDay()
	day[8].Op = OpDischarge
	m[int(time.July)-1] = &day

	got, ok := m.Row(time.July)
	require.True(t, ok)
	assert.Equal(t, OpDischarge, got[8].Op)

	_, ok = m.Row(time.August)
	assert.False(t, ok)
}

func TestOverrideContainsIgnoresClock(t *testing.T) {
	rule := DateOverrideRule{
		Start: time.Date(2024, time.May, 1, 23, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.May, 3, 1, 0, 0, 0, time.UTC),
	}
	assert.True(t, rule.Contains(time.Date(2024, time.May, 1, 0, 30, 0, 0, time.UTC)))
	assert.True(t, rule.Contains(time.Date(2024, time.May, 3, 23, 59, 0, 0, time.UTC)))
	assert.False(t, rule.Contains(time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC)))
}

func TestPriceMapFallback(t *testing.T) {
	var pm PriceMap
	pm[5] = TierPrices{TierPeak: 1.05}

	v, explicit := pm.Price(time.June, TierPeak)
	assert.True(t, explicit)
	assert.InDelta(t, 1.05, v, 1e-9)

	v, explicit = pm.Price(time.June, TierValley)
	assert.False(t, explicit)
	assert.InDelta(t, DefaultPrices[TierValley], v, 1e-9)

	v, explicit = pm.Price(time.July, TierPeak)
	assert.False(t, explicit, "unconfigured month uses the default table")
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestStorageParamsValidate(t *testing.T) {
	p := StorageParams{
		CapacityKWh: 100, CRate: 0.5, Efficiency: 0.9, DOD: 0.9,
		SOCMin: 0.05, SOCMax: 0.95, LimitMode: LimitDemand,
	}
	assert.NoError(t, p.Validate())

	bad := p
	bad.Efficiency = 1.2
	assert.Error(t, bad.Validate())

	bad = p
	bad.SOCMin = 0.9
	bad.SOCMax = 0.1
	assert.Error(t, bad.Validate())

	bad = p
	bad.LimitMode = LimitTransformer
	assert.Error(t, bad.Validate(), "transformer mode needs a rating")
	bad.TransformerKVA = 400
	bad.TransformerRatio = 0.9
	assert.NoError(t, bad.Validate())
}

func TestEffectiveDOD(t *testing.T) {
	p := StorageParams{DOD: 0.9, SOCMin: 0.05, SOCMax: 0.95}
	assert.InDelta(t, 0.9, p.EffectiveDOD(), 1e-9)

	p.SOCMin = 0.4
	p.SOCMax = 0.6
	assert.InDelta(t, 0.2, p.EffectiveDOD(), 1e-9, "clamped to the soc band")
}

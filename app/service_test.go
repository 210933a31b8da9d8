package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmorane/tousim/config"
	"github.com/qmorane/tousim/simulator"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.CapacityKWh = 100
	cfg.Storage.CRate = 0.5
	cfg.Storage.Efficiency = 0.9
	cfg.Storage.DOD = 0.9
	cfg.Storage.SOCMin = 0.05
	cfg.Storage.SOCMax = 0.95
	cfg.Storage.SOCCarryover = true
	cfg.Storage.SetDefaults()
	cfg.Economics.ProjectYears = 10
	cfg.Economics.CapexPerWh = 0.001
	cfg.Economics.OMPerKWhYear = 5
	cfg.Economics.RevenueShare = 1
	cfg.Logging.SetDefaults()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	return cfg
}

func writeScenario(t *testing.T, days int) string {
	t.Helper()
	sc := simulator.Generate(simulator.Config{Days: days, Seed: 11})
	data, err := json.Marshal(sc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestServiceSimulateAndProject(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	sc, err := svc.LoadScenario(writeScenario(t, 5))
	require.NoError(t, err)

	res, err := svc.Simulate(context.Background(), sc)
	require.NoError(t, err)
	assert.Len(t, res.Days, 5)
	require.Len(t, res.Years, 1)

	eco, err := svc.ProjectEconomics(res)
	require.NoError(t, err)
	assert.InDelta(t, 100, eco.CapexTotal, 1e-9)
	assert.Len(t, eco.Cashflows, 10)
}

func TestServicePersistsHistory(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	sc, err := svc.LoadScenario(writeScenario(t, 3))
	require.NoError(t, err)
	res, err := svc.Simulate(context.Background(), sc)
	require.NoError(t, err)

	runs, err := svc.History().Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].RunID)
	assert.Equal(t, 3, runs[0].Days)

	days, err := svc.History().Days(res.RunID, time.Time{}, time.Now().AddDate(10, 0, 0))
	require.NoError(t, err)
	assert.Len(t, days, 3)
}

func TestServiceLoadScenarioErrors(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	_, err = svc.LoadScenario(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"points": []}`), 0o644))
	_, err = svc.LoadScenario(bad)
	assert.Error(t, err)
}

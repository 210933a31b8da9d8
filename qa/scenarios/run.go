package scenarios

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/qmorane/tousim/core/engine"
	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/infra/logger"
	"github.com/qmorane/tousim/infra/metrics"
	"github.com/qmorane/tousim/internal/eventbus"
	"github.com/qmorane/tousim/simulator"
)

// RunScenario generates the load, runs the engine, and checks the result
// against the scenario's expected bounds.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	wire := simulator.Generate(sc.Generator.ToConfig())
	data, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("marshal scenario: %v", err)
	}
	resolved, err := model.ParseScenario(data)
	if err != nil {
		t.Fatalf("resolve scenario: %v", err)
	}

	bus := eventbus.New[engine.DayEvent]()
	defer bus.Close()
	eng := engine.New(sc.Storage.ToModel(), logger.NopLogger{}, sink, bus)
	res, err := eng.Run(context.Background(), resolved)
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	validDays := 0
	var profit, cycles float64
	for _, d := range res.Days {
		if d.Valid {
			validDays++
		}
		profit += d.Profit.Profit
		cycles += d.Cycles
		if sc.Expected.MaxCyclesPday > 0 && d.Cycles > sc.Expected.MaxCyclesPday {
			t.Errorf("scenario %s day %s: %.3f cycles above bound %.3f",
				sc.Name, d.Date.Format("2006-01-02"), d.Cycles, sc.Expected.MaxCyclesPday)
		}
	}
	if validDays != sc.Expected.ValidDays {
		t.Errorf("scenario %s expected %d valid days, got %d", sc.Name, sc.Expected.ValidDays, validDays)
	}
	if profit < sc.Expected.MinProfit {
		t.Errorf("scenario %s expected profit >= %.2f, got %.2f", sc.Name, sc.Expected.MinProfit, profit)
	}
	if cycles < sc.Expected.MinCycles {
		t.Errorf("scenario %s expected cycles >= %.2f, got %.2f", sc.Name, sc.Expected.MinCycles, cycles)
	}
}

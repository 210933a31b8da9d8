package scenarios

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qmorane/tousim/core/model"
	"github.com/qmorane/tousim/simulator"
)

// GeneratorDef describes the synthetic load fed to the engine.
type GeneratorDef struct {
	Profile string  `yaml:"profile"`
	Days    int     `yaml:"days"`
	Start   string  `yaml:"start,omitempty"`
	BaseKW  float64 `yaml:"base_kw"`
	SwingKW float64 `yaml:"swing_kw"`
	NoiseKW float64 `yaml:"noise_kw,omitempty"`
	Seed    int64   `yaml:"seed"`
}

// ToConfig converts the definition into a simulator configuration.
func (g GeneratorDef) ToConfig() simulator.Config {
	cfg := simulator.Config{
		Profile:    simulator.Profile(g.Profile),
		Days:       g.Days,
		BaseLoadKW: g.BaseKW,
		SwingKW:    g.SwingKW,
		NoiseKW:    g.NoiseKW,
		Seed:       g.Seed,
	}
	if g.Start != "" {
		if t, err := time.Parse("2006-01-02", g.Start); err == nil {
			cfg.Start = t.UTC()
		}
	}
	return cfg
}

// StorageDef describes the battery under test.
type StorageDef struct {
	CapacityKWh           float64 `yaml:"capacity_kwh"`
	CRate                 float64 `yaml:"c_rate"`
	Efficiency            float64 `yaml:"efficiency"`
	DOD                   float64 `yaml:"dod"`
	SOCMin                float64 `yaml:"soc_min"`
	SOCMax                float64 `yaml:"soc_max"`
	SOCCarryover          bool    `yaml:"soc_carryover"`
	MergeThresholdMinutes int     `yaml:"merge_threshold_minutes"`
}

// ToModel converts the definition into storage parameters.
func (s StorageDef) ToModel() model.StorageParams {
	p := model.StorageParams{
		CapacityKWh:           s.CapacityKWh,
		CRate:                 s.CRate,
		Efficiency:            s.Efficiency,
		DOD:                   s.DOD,
		SOCMin:                s.SOCMin,
		SOCMax:                s.SOCMax,
		LimitMode:             model.LimitDemand,
		SOCCarryover:          s.SOCCarryover,
		MergeThresholdMinutes: s.MergeThresholdMinutes,
	}
	return p
}

// Expected states the outcome bounds the scenario must land in.
type Expected struct {
	ValidDays     int     `yaml:"valid_days"`
	MinProfit     float64 `yaml:"min_profit"`
	MinCycles     float64 `yaml:"min_cycles"`
	MaxCyclesPday float64 `yaml:"max_cycles_per_day"`
}

// Scenario is one end-to-end QA case.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Generator   GeneratorDef `yaml:"generator"`
	Storage     StorageDef   `yaml:"storage"`
	Expected    Expected     `yaml:"expected"`
}

// Load reads one scenario definition from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

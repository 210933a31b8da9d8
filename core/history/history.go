package history

import "time"

// DayRecord is one persisted day of a simulation run.
type DayRecord struct {
	RunID              string
	Date               time.Time
	Valid              bool
	Cycles             float64
	Revenue            float64
	Cost               float64
	Profit             float64
	ChargeEnergyKWh    float64
	DischargeEnergyKWh float64
}

// RunSummary is the persisted header of a simulation run.
type RunSummary struct {
	RunID     string
	CreatedAt time.Time
	Days      int
	ValidDays int
	Cycles    float64
	Profit    float64
}

// Store persists run results for later comparison across parameter sets.
type Store interface {
	AddRun(RunSummary) error
	AddDay(DayRecord) error
	Runs() ([]RunSummary, error)
	Days(runID string, start, end time.Time) ([]DayRecord, error)
	Close() error
}

// Day truncates t to midnight UTC so records key on the calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

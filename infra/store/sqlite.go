package store

import (
	"database/sql"
	"time"

	core "github.com/qmorane/tousim/core/history"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists run history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS runs (
        run_id TEXT PRIMARY KEY,
        created_at INTEGER,
        days INTEGER,
        valid_days INTEGER,
        cycles REAL,
        profit REAL
    );
    CREATE TABLE IF NOT EXISTS run_days (
        run_id TEXT,
        day INTEGER,
        valid INTEGER,
        cycles REAL,
        revenue REAL,
        cost REAL,
        profit REAL,
        charge_kwh REAL,
        discharge_kwh REAL,
        PRIMARY KEY(run_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddRun inserts or replaces the run header.
func (s *SQLiteStore) AddRun(r core.RunSummary) error {
	_, err := s.db.Exec(`INSERT INTO runs (run_id, created_at, days, valid_days, cycles, profit)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id) DO UPDATE SET
            created_at = excluded.created_at,
            days = excluded.days,
            valid_days = excluded.valid_days,
            cycles = excluded.cycles,
            profit = excluded.profit`,
		r.RunID, r.CreatedAt.Unix(), r.Days, r.ValidDays, r.Cycles, r.Profit)
	return err
}

// AddDay inserts or replaces one day of a run.
func (s *SQLiteStore) AddDay(r core.DayRecord) error {
	d := core.Day(r.Date)
	valid := 0
	if r.Valid {
		valid = 1
	}
	_, err := s.db.Exec(`INSERT INTO run_days (run_id, day, valid, cycles, revenue, cost, profit, charge_kwh, discharge_kwh)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id, day) DO UPDATE SET
            valid = excluded.valid,
            cycles = excluded.cycles,
            revenue = excluded.revenue,
            cost = excluded.cost,
            profit = excluded.profit,
            charge_kwh = excluded.charge_kwh,
            discharge_kwh = excluded.discharge_kwh`,
		r.RunID, d.Unix(), valid, r.Cycles, r.Revenue, r.Cost, r.Profit, r.ChargeEnergyKWh, r.DischargeEnergyKWh)
	return err
}

// Runs returns all run headers, most recent first.
func (s *SQLiteStore) Runs() ([]core.RunSummary, error) {
	rows, err := s.db.Query(`SELECT run_id, created_at, days, valid_days, cycles, profit
        FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.RunSummary
	for rows.Next() {
		var r core.RunSummary
		var ts int64
		if err := rows.Scan(&r.RunID, &ts, &r.Days, &r.ValidDays, &r.Cycles, &r.Profit); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(ts, 0).UTC()
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Days returns the records of a run in the range [start,end].
func (s *SQLiteStore) Days(runID string, start, end time.Time) ([]core.DayRecord, error) {
	start = core.Day(start)
	end = core.Day(end)
	rows, err := s.db.Query(`SELECT run_id, day, valid, cycles, revenue, cost, profit, charge_kwh, discharge_kwh
        FROM run_days WHERE run_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		runID, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.DayRecord
	for rows.Next() {
		var r core.DayRecord
		var ts int64
		var valid int
		if err := rows.Scan(&r.RunID, &ts, &valid, &r.Cycles, &r.Revenue, &r.Cost, &r.Profit, &r.ChargeEnergyKWh, &r.DischargeEnergyKWh); err != nil {
			return nil, err
		}
		r.Date = time.Unix(ts, 0).UTC()
		r.Valid = valid != 0
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

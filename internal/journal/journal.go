// Package journal records day summaries and tips to SQLite. It is an
// append-only log for later review; simulation state is never restored from it.
package journal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-farm/internal/engine"
)

// Journal wraps a SQLite connection bound to one run.
type Journal struct {
	conn  *sqlx.DB
	runID string
}

// Run is one recorded session.
type Run struct {
	ID        string `db:"id" json:"id"`
	StartedAt string `db:"started_at" json:"started_at"`
	Rows      int    `db:"grid_rows" json:"rows"`
	Cols      int    `db:"grid_cols" json:"cols"`
	Days      int    `db:"days" json:"days"`
}

// DayRecord is one journaled day summary.
type DayRecord struct {
	RunID        string  `db:"run_id" json:"run_id"`
	Day          uint64  `db:"day" json:"day"`
	Planted      int     `db:"planted" json:"planted"`
	Mature       int     `db:"mature" json:"mature"`
	Dead         int     `db:"dead" json:"dead"`
	InBand       int     `db:"in_band" json:"in_band"`
	TooDry       int     `db:"too_dry" json:"too_dry"`
	TooWet       int     `db:"too_wet" json:"too_wet"`
	Plots        int     `db:"plots" json:"plots"`
	YieldRate    float64 `db:"yield_rate" json:"yield_rate"`
	DeathRate    float64 `db:"death_rate" json:"death_rate"`
	MeanWaterUse float64 `db:"mean_water_use" json:"mean_water_use"`
	MeanMoisture float64 `db:"mean_moisture" json:"mean_moisture"`
}

// TipRecord is one journaled advisor tip.
type TipRecord struct {
	Day  uint64 `db:"day" json:"day"`
	Kind string `db:"kind" json:"kind"`
	Text string `db:"text" json:"text"`
}

// Open opens or creates a journal at path and starts a new run for a
// rows×cols grid.
func Open(path string, rows, cols int) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	conn.SetMaxOpenConns(1)

	j := &Journal{conn: conn, runID: uuid.NewString()}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	_, err = conn.Exec(
		"INSERT INTO runs (id, started_at, grid_rows, grid_cols) VALUES (?, ?, ?, ?)",
		j.runID, time.Now().UTC().Format(time.RFC3339), rows, cols,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("start run: %w", err)
	}

	slog.Info("journal opened", "path", path, "run", j.runID)
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

// RunID returns the identifier stamped on every row of this run.
func (j *Journal) RunID() string {
	return j.runID
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		grid_rows INTEGER NOT NULL,
		grid_cols INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS days (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		day INTEGER NOT NULL,
		planted INTEGER NOT NULL,
		mature INTEGER NOT NULL,
		dead INTEGER NOT NULL,
		in_band INTEGER NOT NULL,
		too_dry INTEGER NOT NULL,
		too_wet INTEGER NOT NULL,
		plots INTEGER NOT NULL,
		yield_rate REAL NOT NULL,
		death_rate REAL NOT NULL,
		mean_water_use REAL NOT NULL,
		mean_moisture REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		day INTEGER NOT NULL,
		kind TEXT NOT NULL,
		text TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_days_run ON days(run_id, day);
	CREATE INDEX IF NOT EXISTS idx_tips_run ON tips(run_id);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// Record appends one day summary to the current run.
func (j *Journal) Record(d engine.DaySummary) error {
	m := d.Metrics
	_, err := j.conn.Exec(`INSERT INTO days
		(run_id, day, planted, mature, dead, in_band, too_dry, too_wet,
		 plots, yield_rate, death_rate, mean_water_use, mean_moisture)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, d.Day, d.Planted, d.Mature, d.Dead, d.InBand, d.TooDry, d.TooWet,
		m.Plots, m.YieldRate, m.DeathRate, m.MeanWaterUse, m.MeanMoisture,
	)
	if err != nil {
		return fmt.Errorf("record day %d: %w", d.Day, err)
	}
	return nil
}

// DailyUpdate implements engine.DayListener. Failures are logged and the
// day carries on.
func (j *Journal) DailyUpdate(d engine.DaySummary) {
	if err := j.Record(d); err != nil {
		slog.Error("journal write failed", "day", d.Day, "error", err)
	}
}

// RecordTip appends an advisor tip to the current run.
func (j *Journal) RecordTip(day uint64, kind, text string) error {
	_, err := j.conn.Exec(
		"INSERT INTO tips (run_id, day, kind, text) VALUES (?, ?, ?, ?)",
		j.runID, day, kind, text,
	)
	if err != nil {
		return fmt.Errorf("record tip: %w", err)
	}
	return nil
}

// History returns up to limit day records for runID, newest first.
// An empty runID means the current run.
func (j *Journal) History(runID string, limit int) ([]DayRecord, error) {
	if runID == "" {
		runID = j.runID
	}
	var out []DayRecord
	err := j.conn.Select(&out, `SELECT run_id, day, planted, mature, dead, in_band, too_dry, too_wet,
		plots, yield_rate, death_rate, mean_water_use, mean_moisture
		FROM days WHERE run_id = ? ORDER BY id DESC LIMIT ?`,
		runID, limit,
	)
	return out, err
}

// Tips returns up to limit tips for runID, newest first.
func (j *Journal) Tips(runID string, limit int) ([]TipRecord, error) {
	if runID == "" {
		runID = j.runID
	}
	var out []TipRecord
	err := j.conn.Select(&out,
		"SELECT day, kind, text FROM tips WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID, limit,
	)
	return out, err
}

// Runs lists every recorded run, oldest first, with its journaled day count.
func (j *Journal) Runs() ([]Run, error) {
	var out []Run
	err := j.conn.Select(&out, `SELECT r.id, r.started_at, r.grid_rows, r.grid_cols,
		(SELECT COUNT(*) FROM days d WHERE d.run_id = r.id) AS days
		FROM runs r ORDER BY r.rowid`)
	return out, err
}

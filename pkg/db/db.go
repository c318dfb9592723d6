package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Register driver
)

// DB wraps the sql.DB connection.
type DB struct {
	*sql.DB
}

// Init opens the database and runs migrations.
func Init(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// Single writer avoids SQLITE_BUSY when the scheduler and the API write at once.
	// It also keeps the per-connection pragmas below in effect.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=30000;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	d := &DB{db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return d, nil
}

// PruneFlights removes flights (and their events) recorded before now-olderThan.
// It returns the number of flights removed.
func (d *DB) PruneFlights(olderThan time.Duration) (int64, error) {
	// Same layout as SQLite CURRENT_TIMESTAMP.
	deadline := time.Now().Add(-olderThan).UTC().Format("2006-01-02 15:04:05")
	if _, err := d.Exec("DELETE FROM flight_events WHERE flight_id IN (SELECT id FROM flights WHERE created_at < ?)", deadline); err != nil {
		return 0, err
	}
	res, err := d.Exec("DELETE FROM flights WHERE created_at < ?", deadline)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (d *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS flights (
			id TEXT PRIMARY KEY,
			mission TEXT NOT NULL,
			outcome TEXT NOT NULL,
			crash_reason TEXT,
			max_altitude_km REAL,
			max_speed_kms REAL,
			fuel_remaining REAL,
			duration REAL,
			stage_separated BOOLEAN DEFAULT 0,
			malfunctions INTEGER DEFAULT 0,
			launch_lat REAL,
			launch_lon REAL,
			downrange_km REAL,
			started_at DATETIME,
			ended_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_flights_mission ON flights (mission, outcome);`,
		`CREATE TABLE IF NOT EXISTS flight_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			flight_id TEXT NOT NULL REFERENCES flights(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			title TEXT,
			summary TEXT,
			elapsed REAL,
			altitude_km REAL,
			speed_kms REAL,
			ts DATETIME
		);`,
		`CREATE INDEX IF NOT EXISTS idx_flight_events_flight ON flight_events (flight_id);`,
		`CREATE TABLE IF NOT EXISTS persistent_state (
			key TEXT PRIMARY KEY,
			value TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, q := range queries {
		if _, err := d.Exec(q); err != nil {
			return fmt.Errorf("exec error: %w query: %s", err, q)
		}
	}

	// Older databases predate the downrange column.
	var colCount int
	err := d.QueryRow("SELECT count(*) FROM pragma_table_info('flights') WHERE name='downrange_km'").Scan(&colCount)
	if err == nil && colCount == 0 {
		if _, err := d.Exec("ALTER TABLE flights ADD COLUMN downrange_km REAL"); err != nil {
			return fmt.Errorf("failed to add downrange_km column: %w", err)
		}
	}
	return nil
}

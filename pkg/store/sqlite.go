package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"liftoff/pkg/db"
	"liftoff/pkg/model"
)

// Store defines the repository interface.
// Consumers should depend on the specific sub-interfaces when possible.
type Store interface {
	FlightStore
	EventStore
	StateStore

	// Close closes the store connection.
	Close() error
}

const defaultListLimit = 50

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Flights ---

const flightColumns = `id, mission, outcome, crash_reason, max_altitude_km, max_speed_kms, fuel_remaining,
	duration, stage_separated, malfunctions, launch_lat, launch_lon, downrange_km, started_at, ended_at`

// flightSelect reads flightColumns with numeric NULLs as zero.
const flightSelect = `id, mission, outcome, crash_reason,
	COALESCE(max_altitude_km, 0), COALESCE(max_speed_kms, 0), COALESCE(fuel_remaining, 0),
	COALESCE(duration, 0), COALESCE(stage_separated, 0), COALESCE(malfunctions, 0),
	COALESCE(launch_lat, 0), COALESCE(launch_lon, 0), downrange_km, started_at, ended_at`

// SaveFlight upserts the record. Its events, if any, replace the stored ones.
func (s *SQLiteStore) SaveFlight(ctx context.Context, r *model.FlightRecord) error {
	if r.ID == "" {
		return errors.New("flight record has no id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO flights (` + flightColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mission = excluded.mission, outcome = excluded.outcome, crash_reason = excluded.crash_reason,
			max_altitude_km = excluded.max_altitude_km, max_speed_kms = excluded.max_speed_kms,
			fuel_remaining = excluded.fuel_remaining, duration = excluded.duration,
			stage_separated = excluded.stage_separated, malfunctions = excluded.malfunctions,
			launch_lat = excluded.launch_lat, launch_lon = excluded.launch_lon,
			downrange_km = excluded.downrange_km, started_at = excluded.started_at, ended_at = excluded.ended_at`
	_, err = tx.ExecContext(ctx, query,
		r.ID, r.Mission, r.Outcome, r.CrashReason, r.MaxAltitudeKm, r.MaxSpeedKms, r.FuelRemaining,
		r.Duration, r.StageSeparated, r.Malfunctions, r.LaunchLat, r.LaunchLon, r.DownrangeKm,
		r.StartedAt.UTC(), r.EndedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save flight: %w", err)
	}

	if len(r.Events) > 0 {
		if err := replaceEvents(ctx, tx, r.ID, r.Events); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetFlight returns the flight with its events, or nil when not found.
func (s *SQLiteStore) GetFlight(ctx context.Context, id string) (*model.FlightRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+flightSelect+` FROM flights WHERE id = ?`, id)
	r, err := scanFlight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.Events, err = s.GetEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListFlights returns flights newest first, without events.
func (s *SQLiteStore) ListFlights(ctx context.Context, f FlightFilter) ([]*model.FlightRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.Mission != "" {
		where = append(where, "mission = ?")
		args = append(args, f.Mission)
	}
	if f.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, f.Outcome)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT ` + flightSelect + ` FROM flights`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY ended_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.FlightRecord
	for rows.Next() {
		r, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BestAltitude returns the highest altitude reached on a mission.
func (s *SQLiteStore) BestAltitude(ctx context.Context, mission string) (altKm float64, found bool, err error) {
	var best sql.NullFloat64
	err = s.db.QueryRowContext(ctx, "SELECT MAX(max_altitude_km) FROM flights WHERE mission = ?", mission).Scan(&best)
	if err != nil {
		return 0, false, err
	}
	if !best.Valid {
		return 0, false, nil
	}
	return best.Float64, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFlight(row scanner) (*model.FlightRecord, error) {
	var (
		r           model.FlightRecord
		crashReason sql.NullString
		downrange   sql.NullFloat64
		started     sql.NullTime
		ended       sql.NullTime
	)
	err := row.Scan(
		&r.ID, &r.Mission, &r.Outcome, &crashReason,
		&r.MaxAltitudeKm, &r.MaxSpeedKms, &r.FuelRemaining,
		&r.Duration, &r.StageSeparated, &r.Malfunctions,
		&r.LaunchLat, &r.LaunchLon, &downrange, &started, &ended,
	)
	if err != nil {
		return nil, err
	}
	r.CrashReason = crashReason.String
	r.DownrangeKm = downrange.Float64
	if started.Valid {
		r.StartedAt = started.Time
	}
	if ended.Valid {
		r.EndedAt = ended.Time
	}
	return &r, nil
}

// --- Events ---

// SaveEvents replaces the events stored for a flight.
func (s *SQLiteStore) SaveEvents(ctx context.Context, flightID string, events []model.FlightEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceEvents(ctx, tx, flightID, events); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceEvents(ctx context.Context, tx *sql.Tx, flightID string, events []model.FlightEvent) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM flight_events WHERE flight_id = ?", flightID); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO flight_events
		(flight_id, type, title, summary, elapsed, altitude_km, speed_kms, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range events {
		e := &events[i]
		ts := e.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, flightID, e.Type, e.Title, e.Summary, e.Elapsed, e.AltitudeKm, e.SpeedKms, ts.UTC()); err != nil {
			return fmt.Errorf("failed to save event %d: %w", i, err)
		}
	}
	return nil
}

// GetEvents returns a flight's events in the order they happened.
func (s *SQLiteStore) GetEvents(ctx context.Context, flightID string) ([]model.FlightEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, title, summary, elapsed, altitude_km, speed_kms, ts
		 FROM flight_events WHERE flight_id = ? ORDER BY id`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FlightEvent
	for rows.Next() {
		var (
			e              model.FlightEvent
			title, summary sql.NullString
			ts             sql.NullTime
		)
		if err := rows.Scan(&e.Type, &title, &summary, &e.Elapsed, &e.AltitudeKm, &e.SpeedKms, &ts); err != nil {
			return nil, err
		}
		e.Title = title.String
		e.Summary = summary.String
		if ts.Valid {
			e.Timestamp = ts.Time
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value) VALUES (?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val)
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"liftoff/pkg/model"
	"liftoff/pkg/store"
)

// InProgressKey holds the checkpoint of the flight in progress.
const InProgressKey = "flight_in_progress"

// Checkpoint stores the flight in progress, or clears the key when there is none.
func Checkpoint(ctx context.Context, st store.StateStore, mgr *Manager) error {
	data, err := mgr.GetPersistentState()
	if err != nil {
		return err
	}
	if data == nil {
		if _, ok := st.GetState(ctx, InProgressKey); !ok {
			return nil
		}
		return st.DeleteState(ctx, InProgressKey)
	}
	return st.SetState(ctx, InProgressKey, string(data))
}

// TryRestore saves a flight that was cut short by a restart as abandoned.
// A vehicle cannot be resumed mid-air, so the record is closed instead.
// It returns the recovered record, or nil when there was nothing to recover.
func TryRestore(ctx context.Context, st store.StateStore, fs store.FlightStore) *model.FlightRecord {
	val, found := st.GetState(ctx, InProgressKey)
	if !found || val == "" {
		return nil
	}

	var rec model.FlightRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil || rec.ID == "" {
		slog.Error("Session: Failed to unmarshal interrupted flight", "error", err)
		_ = st.DeleteState(ctx, InProgressKey)
		return nil
	}

	rec.Outcome = model.OutcomeAbandoned
	rec.EndedAt = rec.StartedAt.Add(time.Duration(rec.Duration * float64(time.Second)))
	if err := fs.SaveFlight(ctx, &rec); err != nil {
		slog.Error("Session: Failed to save interrupted flight", "id", rec.ID, "error", err)
		return nil
	}
	if err := st.DeleteState(ctx, InProgressKey); err != nil {
		slog.Warn("Session: Failed to clear checkpoint", "error", err)
	}

	slog.Info("Session: Recovered interrupted flight", "id", rec.ID, "mission", rec.Mission, "max_alt_km", rec.MaxAltitudeKm)
	return &rec
}

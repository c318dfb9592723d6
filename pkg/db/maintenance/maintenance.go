package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"liftoff/pkg/db"
	"liftoff/pkg/store"
)

// lastRunKey records when history was last pruned.
const lastRunKey = "maintenance_last_run"

// Run prunes flight history older than retention and records the run.
// A zero retention keeps everything. It blocks until completion.
func Run(ctx context.Context, s store.StateStore, d *db.DB, retention time.Duration) error {
	if retention <= 0 {
		slog.Debug("Flight history retention disabled")
		return nil
	}

	n, err := d.PruneFlights(retention)
	if err != nil {
		return fmt.Errorf("flight pruning failed: %w", err)
	}
	slog.Info("Flight history pruned", "removed", n, "retention", retention)

	if err := s.SetState(ctx, lastRunKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	return nil
}

// LastRun returns when Run last pruned history.
func LastRun(ctx context.Context, s store.StateStore) (time.Time, bool) {
	val, ok := s.GetState(ctx, lastRunKey)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

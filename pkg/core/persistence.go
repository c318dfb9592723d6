package core

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"liftoff/pkg/session"
	"liftoff/pkg/sim"
	"liftoff/pkg/store"
	"liftoff/pkg/tracker"
)

// FlightPersistenceJob saves finished flights and counts them in the tracker.
type FlightPersistenceJob struct {
	BaseJob
	st      store.FlightStore
	sessMgr *session.Manager
	tracker *tracker.Tracker
}

// NewFlightPersistenceJob creates the job. tr may be nil.
func NewFlightPersistenceJob(st store.FlightStore, sm *session.Manager, tr *tracker.Tracker) *FlightPersistenceJob {
	return &FlightPersistenceJob{
		BaseJob: NewBaseJob("FlightPersistence"),
		st:      st,
		sessMgr: sm,
		tracker: tr,
	}
}

func (j *FlightPersistenceJob) ShouldFire(t *sim.Telemetry) bool {
	return !j.busy() && j.sessMgr.Pending() > 0
}

func (j *FlightPersistenceJob) Run(ctx context.Context, t *sim.Telemetry) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()
	j.flush(ctx)
}

// flush saves everything queued. Failed records go back to the queue.
func (j *FlightPersistenceJob) flush(ctx context.Context) {
	recs := j.sessMgr.Drain()
	for i, rec := range recs {
		if err := j.st.SaveFlight(ctx, rec); err != nil {
			slog.Error("Persistence: Failed to save flight", "id", rec.ID, "error", err)
			j.sessMgr.Requeue(recs[i:])
			return
		}
		if j.tracker != nil {
			j.tracker.Record(rec)
		}
		slog.Info("Persistence: Flight saved",
			"id", rec.ID,
			"mission", rec.Mission,
			"outcome", rec.Outcome,
			"max_alt_km", rec.MaxAltitudeKm,
			"events", len(rec.Events))
	}
}

// CheckpointJob periodically stores the flight in progress so a restart can close it.
type CheckpointJob struct {
	*TimeJob
	st      store.StateStore
	sessMgr *session.Manager

	mu        sync.Mutex
	lastSaved []byte
}

// NewCheckpointJob creates a checkpoint job firing at most once per interval.
func NewCheckpointJob(st store.StateStore, sm *session.Manager, interval time.Duration) *CheckpointJob {
	j := &CheckpointJob{st: st, sessMgr: sm}
	j.TimeJob = NewTimeJob("Checkpoint", interval, func(ctx context.Context, _ sim.Telemetry) {
		j.checkAndSave(ctx)
	})
	return j
}

func (j *CheckpointJob) checkAndSave(ctx context.Context) {
	data, err := j.sessMgr.GetPersistentState()
	if err != nil {
		slog.Error("Persistence: Failed to serialize flight", "error", err)
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if bytes.Equal(data, j.lastSaved) {
		return
	}
	if err := session.Checkpoint(ctx, j.st, j.sessMgr); err != nil {
		slog.Error("Persistence: Failed to checkpoint flight", "error", err)
		return
	}
	j.lastSaved = data
	slog.Debug("Persistence: Flight checkpointed", "size", len(data))
}

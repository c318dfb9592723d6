package core

import (
	"context"
	"log/slog"
	"sync/atomic"

	"liftoff/pkg/session"
	"liftoff/pkg/sim"
	"liftoff/pkg/store"
	"liftoff/pkg/tracker"
)

// historySeedLimit bounds how many past flights seed the tracker.
const historySeedLimit = 10000

// SessionRestorationJob runs once: it closes a flight interrupted by a restart
// and seeds the tracker from the flight history.
type SessionRestorationJob struct {
	BaseJob
	st      store.Store
	tracker *tracker.Tracker
	done    int32 // 1 once attempted
}

func NewSessionRestorationJob(st store.Store, tr *tracker.Tracker) *SessionRestorationJob {
	return &SessionRestorationJob{
		BaseJob: NewBaseJob("SessionRestoration"),
		st:      st,
		tracker: tr,
	}
}

func (j *SessionRestorationJob) ShouldFire(t *sim.Telemetry) bool {
	return atomic.LoadInt32(&j.done) == 0 && !j.busy()
}

func (j *SessionRestorationJob) Run(ctx context.Context, t *sim.Telemetry) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()
	defer atomic.StoreInt32(&j.done, 1)

	session.TryRestore(ctx, j.st, j.st)

	if j.tracker == nil {
		return
	}
	flights, err := j.st.ListFlights(ctx, store.FlightFilter{Limit: historySeedLimit})
	if err != nil {
		slog.Error("Session: Failed to load flight history", "error", err)
		return
	}
	for _, rec := range flights {
		j.tracker.Record(rec)
	}
	slog.Info("Session: Tracker seeded from history", "flights", len(flights))
}

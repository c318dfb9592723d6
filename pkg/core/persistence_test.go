package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftoff/pkg/db"
	"liftoff/pkg/geo"
	"liftoff/pkg/model"
	"liftoff/pkg/session"
	"liftoff/pkg/sim"
	"liftoff/pkg/store"
	"liftoff/pkg/tracker"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	d, err := db.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	st := store.NewSQLiteStore(d)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// flyTo launches a flight and ends it with the given event.
func flyTo(m *session.Manager, mission string, end model.FlightEvent) {
	m.RecordEvent(model.FlightEvent{Type: model.EventLaunch, Title: "Liftoff", Summary: mission})
	m.Observe(sim.Telemetry{Mission: mission, AltitudeKm: 180, SpeedKms: 7.1, FlightTime: 95, Fuel: 12})
	m.RecordEvent(end)
}

// failingFlightStore fails every save.
type failingFlightStore struct {
	store.FlightStore
	calls int
}

func (f *failingFlightStore) SaveFlight(ctx context.Context, rec *model.FlightRecord) error {
	f.calls++
	return errors.New("disk full")
}

func TestFlightPersistenceJob(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sm := session.NewManager(geo.Point{Lat: 28.5721, Lon: -80.6480})
	tr := tracker.New()
	job := NewFlightPersistenceJob(st, sm, tr)
	tel := sim.Telemetry{}

	assert.False(t, job.ShouldFire(&tel), "nothing queued")

	flyTo(sm, "Low Orbit", model.FlightEvent{Type: model.EventOrbit, Title: "Orbit achieved", AltitudeKm: 200})
	flyTo(sm, "Karman Line", model.FlightEvent{Type: model.EventCrash, Title: "Crash", Summary: "overspeed: 3.2 km/s in atmosphere"})

	require.True(t, job.ShouldFire(&tel))
	job.Run(ctx, &tel)

	assert.Equal(t, 0, sm.Pending())
	flights, err := st.ListFlights(ctx, store.FlightFilter{})
	require.NoError(t, err)
	require.Len(t, flights, 2)

	crashed, err := st.ListFlights(ctx, store.FlightFilter{Outcome: model.OutcomeCrashed})
	require.NoError(t, err)
	require.Len(t, crashed, 1)
	assert.Equal(t, "Karman Line", crashed[0].Mission)
	assert.Equal(t, "overspeed", crashed[0].CrashReason)

	stats := tr.Snapshot()
	assert.Equal(t, int64(1), stats["Low Orbit"].Orbits)
	assert.Equal(t, int64(1), stats["Karman Line"].Crashes)
}

func TestFlightPersistenceJob_Requeue(t *testing.T) {
	ctx := context.Background()
	fs := &failingFlightStore{}
	sm := session.NewManager(geo.Point{})
	tr := tracker.New()
	job := NewFlightPersistenceJob(fs, sm, tr)
	tel := sim.Telemetry{}

	flyTo(sm, "Low Orbit", model.FlightEvent{Type: model.EventOrbit, Title: "Orbit achieved"})
	flyTo(sm, "Low Orbit", model.FlightEvent{Type: model.EventReset, Title: "Reset"})
	require.Equal(t, 2, sm.Pending())

	job.Run(ctx, &tel)

	assert.Equal(t, 1, fs.calls, "stops at the first failure")
	assert.Equal(t, 2, sm.Pending(), "failed flights go back to the queue")
	assert.Empty(t, tr.Snapshot(), "unsaved flights are not counted")
}

func TestCheckpointJob(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sm := session.NewManager(geo.Point{})
	job := NewCheckpointJob(st, sm, time.Hour)
	tel := sim.Telemetry{}

	sm.RecordEvent(model.FlightEvent{Type: model.EventLaunch, Title: "Liftoff", Summary: "Low Orbit"})
	sm.Observe(sim.Telemetry{Mission: "Low Orbit", AltitudeKm: 42, FlightTime: 30})

	require.True(t, job.ShouldFire(&tel))
	job.Run(ctx, &tel)

	_, ok := st.GetState(ctx, session.InProgressKey)
	require.True(t, ok, "flight in progress checkpointed")

	// Hourly interval: no second run yet.
	assert.False(t, job.ShouldFire(&tel))

	// Landing clears the checkpoint on the next save.
	sm.RecordEvent(model.FlightEvent{Type: model.EventOrbit, Title: "Orbit achieved"})
	job.checkAndSave(ctx)
	_, ok = st.GetState(ctx, session.InProgressKey)
	assert.False(t, ok)
}

func TestSessionRestorationJob(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	tr := tracker.New()

	require.NoError(t, st.SaveFlight(ctx, &model.FlightRecord{
		ID: "f1", Mission: "Low Orbit", Outcome: model.OutcomeOrbit,
		MaxAltitudeKm: 210, Duration: 140,
		StartedAt: time.Now().Add(-time.Hour), EndedAt: time.Now().Add(-time.Hour),
	}))

	// An interrupted flight left behind by a previous process.
	prev := session.NewManager(geo.Point{})
	prev.RecordEvent(model.FlightEvent{Type: model.EventLaunch, Title: "Liftoff", Summary: "Karman Line"})
	require.NoError(t, session.Checkpoint(ctx, st, prev))

	job := NewSessionRestorationJob(st, tr)
	tel := sim.Telemetry{}
	require.True(t, job.ShouldFire(&tel))
	job.Run(ctx, &tel)
	assert.False(t, job.ShouldFire(&tel), "runs once")

	abandoned, err := st.ListFlights(ctx, store.FlightFilter{Outcome: model.OutcomeAbandoned})
	require.NoError(t, err)
	require.Len(t, abandoned, 1)
	assert.Equal(t, "Karman Line", abandoned[0].Mission)

	stats := tr.Snapshot()
	assert.Equal(t, int64(1), stats["Low Orbit"].Orbits)
	assert.Equal(t, int64(1), stats["Karman Line"].Abandoned)
}

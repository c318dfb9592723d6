package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftoff/pkg/db"
	"liftoff/pkg/model"
)

// setupTestStore creates a test database and store for each test.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	d, err := db.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	s := NewSQLiteStore(d)
	t.Cleanup(func() { s.Close() })
	return s
}

func testFlight(id, mission, outcome string, alt float64, ended time.Time) *model.FlightRecord {
	return &model.FlightRecord{
		ID:            id,
		Mission:       mission,
		Outcome:       outcome,
		MaxAltitudeKm: alt,
		MaxSpeedKms:   7.8,
		FuelRemaining: 12,
		Duration:      95.5,
		LaunchLat:     28.5721,
		LaunchLon:     -80.648,
		StartedAt:     ended.Add(-95 * time.Second),
		EndedAt:       ended,
	}
}

func TestFlightStore(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	rec := testFlight("f1", "Low Orbit", model.OutcomeCrashed, 88.5, base)
	rec.CrashReason = "overspeed"
	rec.StageSeparated = true
	rec.Malfunctions = 2
	rec.DownrangeKm = 3.25
	rec.Events = []model.FlightEvent{
		{Type: model.EventLaunch, Title: "Liftoff", Summary: "Low Orbit", Timestamp: base.Add(-95 * time.Second)},
		{Type: model.EventCrash, Title: "Vehicle lost", Elapsed: 95.5, AltitudeKm: 88.5, SpeedKms: 13.1, Timestamp: base},
	}

	t.Run("SaveAndGet", func(t *testing.T) {
		require.NoError(t, s.SaveFlight(ctx, rec))

		got, err := s.GetFlight(ctx, "f1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Low Orbit", got.Mission)
		assert.Equal(t, model.OutcomeCrashed, got.Outcome)
		assert.Equal(t, "overspeed", got.CrashReason)
		assert.True(t, got.StageSeparated)
		assert.Equal(t, 2, got.Malfunctions)
		assert.InDelta(t, 3.25, got.DownrangeKm, 1e-9)
		assert.True(t, got.EndedAt.Equal(base), "ended_at %v", got.EndedAt)
		require.Len(t, got.Events, 2)
		assert.Equal(t, model.EventLaunch, got.Events[0].Type)
		assert.Equal(t, model.EventCrash, got.Events[1].Type)
		assert.InDelta(t, 13.1, got.Events[1].SpeedKms, 1e-9)
	})

	t.Run("NotFound", func(t *testing.T) {
		got, err := s.GetFlight(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Upsert_KeepsEventsWhenNoneGiven", func(t *testing.T) {
		upd := *rec
		upd.Events = nil
		upd.Outcome = model.OutcomeOrbit
		upd.CrashReason = ""
		require.NoError(t, s.SaveFlight(ctx, &upd))

		got, err := s.GetFlight(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeOrbit, got.Outcome)
		assert.Empty(t, got.CrashReason)
		assert.Len(t, got.Events, 2)
	})

	t.Run("MissingID", func(t *testing.T) {
		assert.Error(t, s.SaveFlight(ctx, &model.FlightRecord{Mission: "Low Orbit"}))
	})
}

func TestListFlights(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	flights := []*model.FlightRecord{
		testFlight("a", "Low Orbit", model.OutcomeOrbit, 1000, base),
		testFlight("b", "Low Orbit", model.OutcomeCrashed, 60, base.Add(time.Minute)),
		testFlight("c", "Karman Line", model.OutcomeOrbit, 1002, base.Add(2*time.Minute)),
		testFlight("d", "Low Orbit", model.OutcomeAbandoned, 12, base.Add(3*time.Minute)),
	}
	for _, f := range flights {
		require.NoError(t, s.SaveFlight(ctx, f))
	}

	ids := func(rs []*model.FlightRecord) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	tests := []struct {
		name   string
		filter FlightFilter
		want   []string
	}{
		{"All_NewestFirst", FlightFilter{}, []string{"d", "c", "b", "a"}},
		{"ByMission", FlightFilter{Mission: "Low Orbit"}, []string{"d", "b", "a"}},
		{"ByOutcome", FlightFilter{Outcome: model.OutcomeOrbit}, []string{"c", "a"}},
		{"Both", FlightFilter{Mission: "Low Orbit", Outcome: model.OutcomeCrashed}, []string{"b"}},
		{"Limit", FlightFilter{Limit: 2}, []string{"d", "c"}},
		{"NoMatch", FlightFilter{Mission: "Mars"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListFlights(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("BestAltitude", func(t *testing.T) {
		alt, found, err := s.BestAltitude(ctx, "Low Orbit")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 1000.0, alt)

		_, found, err = s.BestAltitude(ctx, "Mars")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestEventStore(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	require.NoError(t, s.SaveFlight(ctx, testFlight("f", "Low Orbit", model.OutcomeOrbit, 1000, time.Now())))

	first := []model.FlightEvent{{Type: model.EventLaunch, Title: "Liftoff"}}
	require.NoError(t, s.SaveEvents(ctx, "f", first))

	second := []model.FlightEvent{
		{Type: model.EventLaunch, Title: "Liftoff"},
		{Type: model.EventStaging, Title: "Stage separation", Summary: "stage 2 fuel 150", AltitudeKm: 41},
		{Type: model.EventOrbit, Title: "Orbit achieved"},
	}
	require.NoError(t, s.SaveEvents(ctx, "f", second))

	got, err := s.GetEvents(ctx, "f")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "stage 2 fuel 150", got[1].Summary)
	assert.Equal(t, 41.0, got[1].AltitudeKm)
	assert.False(t, got[0].Timestamp.IsZero(), "zero timestamps are filled in")

	none, err := s.GetEvents(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStateStore(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, ok := s.GetState(ctx, "mission")
	assert.False(t, ok)

	require.NoError(t, s.SetState(ctx, "mission", "Low Orbit"))
	require.NoError(t, s.SetState(ctx, "mission", "Karman Line"))
	val, ok := s.GetState(ctx, "mission")
	assert.True(t, ok)
	assert.Equal(t, "Karman Line", val)

	require.NoError(t, s.DeleteState(ctx, "mission"))
	_, ok = s.GetState(ctx, "mission")
	assert.False(t, ok)
}

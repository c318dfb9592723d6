package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftoff/pkg/model"
	"liftoff/pkg/sim"
	"liftoff/pkg/store"
)

// MockStore implements the state and flight stores in memory.
type MockStore struct {
	Data    map[string]string
	Flights map[string]*model.FlightRecord
	SaveErr error
}

func newMockStore() *MockStore {
	return &MockStore{Data: map[string]string{}, Flights: map[string]*model.FlightRecord{}}
}

func (m *MockStore) GetState(ctx context.Context, key string) (string, bool) {
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockStore) SetState(ctx context.Context, key, value string) error {
	m.Data[key] = value
	return nil
}

func (m *MockStore) DeleteState(ctx context.Context, key string) error {
	delete(m.Data, key)
	return nil
}

func (m *MockStore) SaveFlight(ctx context.Context, rec *model.FlightRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	cp := *rec
	m.Flights[rec.ID] = &cp
	return nil
}

func (m *MockStore) GetFlight(ctx context.Context, id string) (*model.FlightRecord, error) {
	return m.Flights[id], nil
}

func (m *MockStore) ListFlights(ctx context.Context, f store.FlightFilter) ([]*model.FlightRecord, error) {
	return nil, nil
}

func (m *MockStore) BestAltitude(ctx context.Context, mission string) (float64, bool, error) {
	return 0, false, nil
}

func TestCheckpointAndRestore(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	m := newTestManager(t)

	// No flight: nothing stored.
	require.NoError(t, Checkpoint(ctx, st, m))
	_, ok := st.Data[InProgressKey]
	assert.False(t, ok)

	launch(m)
	m.Observe(sim.Telemetry{Mission: "Low Orbit", AltitudeKm: 250, FlightTime: 60})
	require.NoError(t, Checkpoint(ctx, st, m))
	require.Contains(t, st.Data, InProgressKey)

	// A fresh process picks it up.
	rec := TryRestore(ctx, st, st)
	require.NotNil(t, rec)
	assert.Equal(t, model.OutcomeAbandoned, rec.Outcome)
	assert.Equal(t, 250.0, rec.MaxAltitudeKm)
	assert.Equal(t, rec.StartedAt.Add(60*time.Second), rec.EndedAt)
	assert.Contains(t, st.Flights, rec.ID)
	assert.NotContains(t, st.Data, InProgressKey)

	assert.Nil(t, TryRestore(ctx, st, st), "nothing left to recover")
}

func TestCheckpoint_ClearsAfterLanding(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	m := newTestManager(t)

	launch(m)
	require.NoError(t, Checkpoint(ctx, st, m))
	m.RecordEvent(model.FlightEvent{Type: model.EventOrbit, Title: "Orbit achieved"})
	require.NoError(t, Checkpoint(ctx, st, m))
	assert.NotContains(t, st.Data, InProgressKey)
}

func TestTryRestore_Corrupt(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	st.Data[InProgressKey] = "{not json"

	assert.Nil(t, TryRestore(ctx, st, st))
	assert.NotContains(t, st.Data, InProgressKey, "corrupt checkpoints are dropped")
}

func TestTryRestore_SaveFails(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	st.SaveErr = assert.AnError
	st.Data[InProgressKey] = `{"id":"x","mission":"Low Orbit"}`

	assert.Nil(t, TryRestore(ctx, st, st))
	assert.Contains(t, st.Data, InProgressKey, "kept for the next attempt")
}

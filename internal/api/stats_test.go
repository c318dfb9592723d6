package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftoff/pkg/model"
	"liftoff/pkg/tracker"
)

func TestStatsHandler(t *testing.T) {
	tr := tracker.New()
	tr.Record(&model.FlightRecord{Mission: "Low Orbit", Outcome: model.OutcomeOrbit, MaxAltitudeKm: 205, Duration: 140})
	tr.Record(&model.FlightRecord{Mission: "Low Orbit", Outcome: model.OutcomeCrashed, MaxAltitudeKm: 40})
	tr.Record(&model.FlightRecord{Mission: "Karman Line", Outcome: model.OutcomeAbandoned, Malfunctions: 2})

	h := NewStatsHandler(tr, NewTelemetryHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	require.Len(t, resp.Missions, 2)
	assert.Equal(t, "Karman Line", resp.Missions[0].Mission)
	assert.Equal(t, int64(2), resp.Missions[0].Malfunctions)
	assert.Equal(t, int64(0), resp.Missions[0].SuccessRate)

	lo := resp.Missions[1]
	assert.Equal(t, int64(2), lo.Attempts)
	assert.Equal(t, int64(50), lo.SuccessRate)
	assert.InDelta(t, 205, lo.BestAltitudeKm, 1e-9)

	assert.Positive(t, resp.Diagnostics.Goroutines)
	assert.GreaterOrEqual(t, resp.Diagnostics.MemoryMaxMB, resp.Diagnostics.MemoryMB)
}

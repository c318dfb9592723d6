package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftoff/pkg/config"
	"liftoff/pkg/sim"
)

type memPhysics struct {
	saved []config.PhysicsConfig
	err   error
}

func (m *memPhysics) SavePhysics(ctx context.Context, pc config.PhysicsConfig) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, pc)
	return nil
}

func TestParamsHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		saveErr    error
		wantStatus int
		check      func(*testing.T, *fakeController, *memPhysics)
	}{
		{
			name:       "Get returns current params",
			method:     "GET",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Partial update keeps other values",
			method:     "PUT",
			body:       `{"gravity":0.002,"unlimitedFuel":true}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, c *fakeController, s *memPhysics) {
				assert.InDelta(t, 0.002, c.params.Gravity, 1e-12)
				assert.True(t, c.params.UnlimitedFuel)
				assert.InDelta(t, sim.DefaultParams().ThrustPower, c.params.ThrustPower, 1e-12)
				require.Len(t, s.saved, 1)
				assert.True(t, s.saved[0].UnlimitedFuel)
			},
		},
		{
			name:       "Zero mass rejected",
			method:     "PUT",
			body:       `{"mass":0}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, c *fakeController, s *memPhysics) {
				assert.Equal(t, sim.DefaultParams(), c.params)
				assert.Empty(t, s.saved)
			},
		},
		{
			name:       "Negative drag rejected",
			method:     "POST",
			body:       `{"dragCoefficient":-1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Save failure",
			method:     "PUT",
			body:       `{"thrustPower":0.02}`,
			saveErr:    errors.New("locked"),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "Options preflight",
			method:     "OPTIONS",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Delete not allowed",
			method:     "DELETE",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newFakeController()
			saver := &memPhysics{err: tt.saveErr}
			h := NewParamsHandler(ctrl, saver)

			w := do(h.HandleParams, tt.method, "/api/params", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.method == "GET" {
				var p sim.Params
				require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
				assert.Equal(t, sim.DefaultParams(), p)
			}
			if tt.check != nil {
				tt.check(t, ctrl, saver)
			}
		})
	}
}

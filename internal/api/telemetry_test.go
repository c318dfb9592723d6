package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftoff/pkg/sim"
)

func TestTelemetryHandler_HandleTelemetry(t *testing.T) {
	defaultTel := sim.Telemetry{
		Mission:    "Low Orbit",
		GameState:  sim.StateFlying,
		AltitudeKm: 42.5,
		Latitude:   28.6,
	}

	tests := []struct {
		name     string
		setup    func(*TelemetryHandler)
		validate func(*testing.T, TelemetryResponse)
	}{
		{
			name: "Success_WithData",
			setup: func(h *TelemetryHandler) {
				h.UpdateState(sim.LinkRunning)
				h.Update(&defaultTel)
			},
			validate: func(t *testing.T, resp TelemetryResponse) {
				if resp.AltitudeKm != defaultTel.AltitudeKm {
					t.Errorf("got altitude %v, want %v", resp.AltitudeKm, defaultTel.AltitudeKm)
				}
				if resp.LinkState != string(sim.LinkRunning) {
					t.Errorf("got link state %q, want running", resp.LinkState)
				}
			},
		},
		{
			name: "Success_EmptyInitial",
			validate: func(t *testing.T, resp TelemetryResponse) {
				if resp.AltitudeKm != 0 {
					t.Errorf("got altitude %v, want 0", resp.AltitudeKm)
				}
				if resp.LinkState != string(sim.LinkStopped) {
					t.Errorf("got link state %q, want stopped", resp.LinkState)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewTelemetryHandler()
			if tt.setup != nil {
				tt.setup(handler)
			}

			req := httptest.NewRequest("GET", "/api/telemetry", http.NoBody)
			w := httptest.NewRecorder()

			handler.handleTelemetry(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("StatusCode: got %v, want 200", resp.StatusCode)
			}
			var got TelemetryResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}
			tt.validate(t, got)
		})
	}
}

func TestTelemetryHandler_Stream(t *testing.T) {
	h := NewTelemetryHandler()
	h.UpdateState(sim.LinkRunning)

	srv := httptest.NewServer(http.HandlerFunc(h.handleStream))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	// The current snapshot arrives first.
	var first TelemetryResponse
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, string(sim.LinkRunning), first.LinkState)

	require.Eventually(t, func() bool { return h.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	h.Update(&sim.Telemetry{Mission: "Karman Line", AltitudeKm: 99})

	var next TelemetryResponse
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "Karman Line", next.Mission)
	assert.InDelta(t, 99, next.AltitudeKm, 1e-9)

	conn.Close()
	assert.Eventually(t, func() bool { return h.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestTelemetryHandler_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewTelemetryHandler()
	ch := h.subscribe()
	defer h.unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < streamBuffer*4; i++ {
			h.Update(&sim.Telemetry{Elapsed: float64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Update blocked on a full subscriber")
	}
	assert.Len(t, ch, streamBuffer)
}

package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftoff/pkg/logging"
	"liftoff/pkg/mission"
	"liftoff/pkg/tracker"
	"liftoff/pkg/version"
)

func newTestServer(t *testing.T, shutdown func()) *httptest.Server {
	t.Helper()
	ctrl := newFakeController()
	tel := NewTelemetryHandler()
	srv := NewServer("",
		tel,
		NewFlightHandler(ctrl, mission.DefaultCatalog(), nil, nil),
		NewParamsHandler(ctrl, nil),
		NewHistoryHandler(nil, &memFlights{}),
		NewStatsHandler(tracker.New(), tel),
		nil,
		shutdown,
	)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_Routes(t *testing.T) {
	ts := newTestServer(t, func() {})

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"GET", "/health", "", http.StatusOK},
		{"GET", "/api/version", "", http.StatusOK},
		{"GET", "/api/telemetry", "", http.StatusOK},
		{"GET", "/api/missions", "", http.StatusOK},
		{"POST", "/api/mission", `{"name":"Karman Line"}`, http.StatusOK},
		{"POST", "/api/reset", "", http.StatusOK},
		{"POST", "/api/control", `{"thrust":true}`, http.StatusOK},
		{"POST", "/api/boost", "", http.StatusOK},
		{"POST", "/api/quiz/answer", `{"choice":1}`, http.StatusOK},
		{"GET", "/api/params", "", http.StatusOK},
		{"GET", "/api/flights", "", http.StatusOK},
		{"GET", "/api/flights/missing", "", http.StatusNotFound},
		{"GET", "/api/stats", "", http.StatusOK},
		{"GET", "/api/log/latest", "", http.StatusOK},
		{"GET", "/api/log/event", "", http.StatusOK},
		{"GET", "/api/track", "", http.StatusNotFound},
		{"GET", "/api/reset", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestServer_Version(t *testing.T) {
	ts := newTestServer(t, func() {})

	resp, err := http.Get(ts.URL + "/api/version")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, version.Version, body["version"])
}

func TestServer_LatestEvent(t *testing.T) {
	ts := newTestServer(t, func() {})
	_, _ = logging.GlobalEventCapture.Write([]byte("[2026-03-02 21:14:05] [orbit] Orbit achieved - Low Orbit\n"))

	resp, err := http.Get(ts.URL + "/api/log/event")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Orbit achieved")
}

func TestServer_Shutdown(t *testing.T) {
	called := make(chan struct{})
	ts := newTestServer(t, func() { close(called) })

	resp, err := http.Post(ts.URL+"/api/shutdown", "text/plain", http.NoBody)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("shutdown func not called")
	}
}

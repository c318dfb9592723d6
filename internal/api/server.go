package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"liftoff/pkg/logging"
	"liftoff/pkg/version"
)

// NewServer creates and configures the HTTP server.
// Optional handlers may be nil; their routes are then not registered.
func NewServer(addr string, tel *TelemetryHandler, flight *FlightHandler, params *ParamsHandler, hist *HistoryHandler, stats *StatsHandler, track *TrackHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Telemetry Endpoints
	mux.HandleFunc("GET /api/telemetry", tel.handleTelemetry)
	mux.HandleFunc("GET /api/stream", tel.handleStream)

	// 2b. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2c. Flight Control Endpoints
	mux.HandleFunc("GET /api/missions", flight.HandleMissions)
	mux.HandleFunc("POST /api/mission", flight.HandleSelectMission)
	mux.HandleFunc("POST /api/reset", flight.HandleReset)
	mux.HandleFunc("POST /api/control", flight.HandleControl)
	mux.HandleFunc("POST /api/boost", flight.HandleBoost)
	mux.HandleFunc("POST /api/pause", flight.HandlePause)
	mux.HandleFunc("POST /api/quiz/answer", flight.HandleAnswer)

	// 2d. Physics Tunables
	if params != nil {
		mux.HandleFunc("/api/params", params.HandleParams)
	}

	// 2e. Flight History
	if hist != nil {
		mux.HandleFunc("GET /api/flights", hist.HandleList)
		mux.HandleFunc("GET /api/flights/{id}", hist.HandleGet)
	}

	// 2f. Stats Endpoint
	if stats != nil {
		mux.Handle("GET /api/stats", stats)
	}

	// 2g. Ground Track
	if track != nil {
		mux.Handle("GET /api/track", track)
	}

	// 2h. Logs Endpoints
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)
	mux.HandleFunc("GET /api/log/event", handleLatestEvent)

	// 3. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:        addr,
		Handler:     loggingMiddleware(mux),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /api/stream holds its connection open.
		IdleTimeout: 60 * time.Second,
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

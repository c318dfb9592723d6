package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"liftoff/pkg/sim"
)

const (
	streamBuffer = 8
	writeWait    = 5 * time.Second
	pongWait     = 30 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

// TelemetryResponse is the API response structure.
type TelemetryResponse struct {
	sim.Telemetry
	LinkState string `json:"linkState"`
}

// TelemetryHandler serves the latest snapshot and pushes it to stream subscribers.
type TelemetryHandler struct {
	mu        sync.RWMutex
	telemetry sim.Telemetry
	linkState sim.LinkState

	subMu    sync.Mutex
	subs     map[chan TelemetryResponse]struct{}
	upgrader websocket.Upgrader
}

func NewTelemetryHandler() *TelemetryHandler {
	return &TelemetryHandler{
		linkState: sim.LinkStopped,
		subs:      make(map[chan TelemetryResponse]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Local cockpit clients connect from other origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Update implements core.TelemetrySink.
func (h *TelemetryHandler) Update(t *sim.Telemetry) {
	h.mu.Lock()
	h.telemetry = *t
	resp := TelemetryResponse{Telemetry: h.telemetry, LinkState: string(h.linkState)}
	h.mu.Unlock()

	h.broadcast(resp)
}

// UpdateState implements core.TelemetrySink.
func (h *TelemetryHandler) UpdateState(s sim.LinkState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.linkState = s
}

func (h *TelemetryHandler) snapshot() TelemetryResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return TelemetryResponse{
		Telemetry: h.telemetry,
		LinkState: string(h.linkState),
	}
}

// broadcast hands the snapshot to every subscriber. Slow subscribers miss frames.
func (h *TelemetryHandler) broadcast(resp TelemetryResponse) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- resp:
		default:
		}
	}
}

func (h *TelemetryHandler) subscribe() chan TelemetryResponse {
	ch := make(chan TelemetryResponse, streamBuffer)
	h.subMu.Lock()
	h.subs[ch] = struct{}{}
	h.subMu.Unlock()
	return ch
}

func (h *TelemetryHandler) unsubscribe(ch chan TelemetryResponse) {
	h.subMu.Lock()
	delete(h.subs, ch)
	h.subMu.Unlock()
}

// Subscribers returns the number of open streams.
func (h *TelemetryHandler) Subscribers() int {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	return len(h.subs)
}

func (h *TelemetryHandler) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.snapshot()); err != nil {
		slog.Error("Failed to encode telemetry response", "error", err)
	}
}

// handleStream upgrades to a websocket and pushes every scheduler update.
// GET /api/stream
func (h *TelemetryHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Stream: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch := h.subscribe()
	defer h.unsubscribe(ch)
	slog.Debug("Stream: client connected", "remote", r.RemoteAddr)

	// The read loop only serves control frames and notices the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := writeFrame(conn, h.snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-done:
			slog.Debug("Stream: client disconnected", "remote", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		case resp := <-ch:
			if err := writeFrame(conn, resp); err != nil {
				slog.Debug("Stream: write failed", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, resp TelemetryResponse) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(resp)
}

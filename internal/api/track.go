package api

import (
	"log/slog"
	"net/http"

	"liftoff/pkg/geo"
	"liftoff/pkg/sim"
)

// TrackSource exposes the ground track of the flight in progress.
type TrackSource interface {
	Track() *geo.GroundTrack
}

// TrackHandler serves the ground track as GeoJSON.
type TrackHandler struct {
	src TrackSource
	tel *TelemetryHandler
}

// NewTrackHandler creates a new TrackHandler. Returns nil without a source.
func NewTrackHandler(src TrackSource, tel *TelemetryHandler) *TrackHandler {
	if src == nil {
		return nil
	}
	return &TrackHandler{src: src, tel: tel}
}

// ServeHTTP handles GET /api/track.
func (h *TrackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	track := h.src.Track()
	props := map[string]interface{}{
		"length_km":    track.LengthKm(),
		"downrange_km": track.DownrangeKm(),
	}
	if h.tel != nil {
		snap := h.tel.snapshot()
		props["mission"] = snap.Mission
		props["state"] = string(snap.GameState)
		props["altitude_km"] = snap.AltitudeKm
		props["in_orbit"] = snap.GameState == sim.StateOrbit
	}

	data, err := track.FeatureCollection(props).MarshalJSON()
	if err != nil {
		slog.Error("Failed to encode ground track", "error", err)
		http.Error(w, "failed to encode track", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write track response", "error", err)
	}
}

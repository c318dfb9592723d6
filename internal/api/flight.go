package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"liftoff/pkg/mission"
	"liftoff/pkg/quiz"
	"liftoff/pkg/sim"
	"liftoff/pkg/store"
)

// MissionSaver persists the selected mission across restarts.
type MissionSaver interface {
	SaveMission(ctx context.Context, name string) error
}

// Controller is the flight host surface driven by the API.
type Controller interface {
	sim.Controller
	Mission() mission.Config
}

// FlightHandler turns HTTP commands into flight host calls.
type FlightHandler struct {
	sim     Controller
	catalog *mission.Catalog
	saver   MissionSaver
	flights store.FlightStore
}

// NewFlightHandler creates a FlightHandler. saver and flights may be nil.
func NewFlightHandler(ctrl Controller, catalog *mission.Catalog, saver MissionSaver, flights store.FlightStore) *FlightHandler {
	return &FlightHandler{
		sim:     ctrl,
		catalog: catalog,
		saver:   saver,
		flights: flights,
	}
}

// MissionDTO is a catalog entry with the player's record on it.
type MissionDTO struct {
	mission.Config
	Selected       bool     `json:"selected"`
	BestAltitudeKm *float64 `json:"bestAltitudeKm,omitempty"`
}

// ControlRequest is the player input applied until the next request.
type ControlRequest struct {
	Thrust bool    `json:"thrust"`
	Pitch  float64 `json:"pitch"`
	Roll   float64 `json:"roll"`
}

// SelectMissionRequest names the mission to fly.
type SelectMissionRequest struct {
	Name string `json:"name"`
}

// AnswerRequest picks one of the offered options.
type AnswerRequest struct {
	Choice *int `json:"choice"`
}

// PauseRequest stops or resumes the frame loop.
type PauseRequest struct {
	Paused bool `json:"paused"`
}

// HandleMissions lists the catalog in difficulty order.
// GET /api/missions
func (h *FlightHandler) HandleMissions(w http.ResponseWriter, r *http.Request) {
	current := h.sim.Mission().Name

	var out []MissionDTO
	for _, name := range h.catalog.Names() {
		m, err := h.catalog.Get(name)
		if err != nil {
			continue
		}
		dto := MissionDTO{Config: m, Selected: m.Name == current}
		if h.flights != nil {
			best, found, err := h.flights.BestAltitude(r.Context(), m.Name)
			if err != nil {
				slog.Warn("FlightHandler: best altitude lookup failed", "mission", m.Name, "error", err)
			} else if found {
				dto.BestAltitudeKm = &best
			}
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSelectMission switches mission and resets the flight.
// POST /api/mission
func (h *FlightHandler) HandleSelectMission(w http.ResponseWriter, r *http.Request) {
	var req SelectMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	m, err := h.catalog.Get(req.Name)
	if errors.Is(err, mission.ErrUnknownMission) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.sim.SelectMission(m)
	if h.saver != nil {
		if err := h.saver.SaveMission(r.Context(), m.Name); err != nil {
			slog.Warn("FlightHandler: failed to persist mission", "mission", m.Name, "error", err)
		}
	}
	slog.Info("Mission selected", "mission", m.Name)
	writeJSON(w, http.StatusOK, m)
}

// HandleReset restores the mission's initial state.
// POST /api/reset
func (h *FlightHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.sim.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// HandleControl replaces the player input.
// POST /api/control
func (h *FlightHandler) HandleControl(w http.ResponseWriter, r *http.Request) {
	var req ControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	in := sim.Input{
		Thrust: req.Thrust,
		Pitch:  clampAxis(req.Pitch),
		Roll:   clampAxis(req.Roll),
	}
	h.sim.SetInput(in)
	writeJSON(w, http.StatusOK, in)
}

// HandleBoost engages the boost when the mission has one left.
// POST /api/boost
func (h *FlightHandler) HandleBoost(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"engaged": h.sim.Boost()})
}

// HandlePause stops or resumes stepping.
// POST /api/pause
func (h *FlightHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	var req PauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.sim.SetPaused(req.Paused)
	writeJSON(w, http.StatusOK, req)
}

// HandleAnswer answers the pending math challenge.
// POST /api/quiz/answer
func (h *FlightHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Choice == nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	out, err := h.sim.Answer(*req.Choice)
	switch {
	case errors.Is(err, quiz.ErrNoQuestion):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, quiz.ErrInvalidChoice):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func clampAxis(v float64) float64 {
	return max(-1, min(1, v))
}

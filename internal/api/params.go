package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"liftoff/pkg/config"
	"liftoff/pkg/sim"
)

// ParamsTarget is the flight host whose tunables are edited.
type ParamsTarget interface {
	Params() sim.Params
	SetParams(p sim.Params)
}

// PhysicsSaver persists tunables across restarts.
type PhysicsSaver interface {
	SavePhysics(ctx context.Context, pc config.PhysicsConfig) error
}

// ParamsHandler handles the physics tunables.
type ParamsHandler struct {
	target ParamsTarget
	saver  PhysicsSaver
}

// NewParamsHandler creates a new ParamsHandler. saver may be nil.
func NewParamsHandler(target ParamsTarget, saver PhysicsSaver) *ParamsHandler {
	return &ParamsHandler{target: target, saver: saver}
}

// ParamsRequest represents a partial update. Missing fields keep their value.
type ParamsRequest struct {
	ThrustPower         *float64 `json:"thrustPower,omitempty"`
	Gravity             *float64 `json:"gravity,omitempty"`
	Mass                *float64 `json:"mass,omitempty"`
	DragCoefficient     *float64 `json:"dragCoefficient,omitempty"`
	FuelConsumptionRate *float64 `json:"fuelConsumptionRate,omitempty"`
	ParticleScale       *float64 `json:"particleScale,omitempty"`
	UnlimitedFuel       *bool    `json:"unlimitedFuel,omitempty"` // Pointer to detect false vs missing
}

// HandleParams is a unified handler for the tunables, facilitating CORS/OPTIONS.
func (h *ParamsHandler) HandleParams(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.target.Params())
	case http.MethodPut, http.MethodPost:
		h.handleSet(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ParamsHandler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req ParamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p := h.target.Params()
	apply(&p.ThrustPower, req.ThrustPower)
	apply(&p.Gravity, req.Gravity)
	apply(&p.Mass, req.Mass)
	apply(&p.DragCoefficient, req.DragCoefficient)
	apply(&p.FuelConsumptionRate, req.FuelConsumptionRate)
	apply(&p.ParticleScale, req.ParticleScale)
	apply(&p.UnlimitedFuel, req.UnlimitedFuel)

	if err := validateParams(p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.target.SetParams(p)
	if h.saver != nil {
		if err := h.saver.SavePhysics(r.Context(), config.PhysicsFrom(p)); err != nil {
			slog.Error("Failed to persist physics params", "error", err)
			http.Error(w, "failed to save params", http.StatusInternalServerError)
			return
		}
	}
	slog.Info("Physics params updated",
		"thrust", p.ThrustPower,
		"gravity", p.Gravity,
		"mass", p.Mass,
		"unlimited_fuel", p.UnlimitedFuel)
	writeJSON(w, http.StatusOK, p)
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func validateParams(p sim.Params) error {
	if p.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %g", p.Mass)
	}
	for name, v := range map[string]float64{
		"thrustPower":         p.ThrustPower,
		"gravity":             p.Gravity,
		"dragCoefficient":     p.DragCoefficient,
		"fuelConsumptionRate": p.FuelConsumptionRate,
		"particleScale":       p.ParticleScale,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %g", name, v)
		}
	}
	return nil
}

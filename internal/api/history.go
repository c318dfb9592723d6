package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"liftoff/pkg/model"
	"liftoff/pkg/store"
)

// currentFlightID addresses the flight in progress on /api/flights/{id}.
const currentFlightID = "current"

// SessionProvider provides access to the flight in progress.
type SessionProvider interface {
	Current() (model.FlightRecord, bool)
}

// HistoryHandler serves the flight log.
type HistoryHandler struct {
	session SessionProvider
	flights store.FlightStore
}

// NewHistoryHandler creates a new HistoryHandler. Returns nil if the store is missing.
func NewHistoryHandler(session SessionProvider, flights store.FlightStore) *HistoryHandler {
	if flights == nil {
		return nil
	}
	return &HistoryHandler{session: session, flights: flights}
}

// HandleList returns finished flights, newest first.
// GET /api/flights?mission=&outcome=&limit=
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.FlightFilter{
		Mission: q.Get("mission"),
		Outcome: q.Get("outcome"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		f.Limit = limit
	}
	switch f.Outcome {
	case "", model.OutcomeOrbit, model.OutcomeCrashed, model.OutcomeAbandoned:
	default:
		http.Error(w, "invalid outcome", http.StatusBadRequest)
		return
	}

	flights, err := h.flights.ListFlights(r.Context(), f)
	if err != nil {
		slog.Error("HistoryHandler: failed to list flights", "error", err)
		http.Error(w, "failed to list flights", http.StatusInternalServerError)
		return
	}
	if flights == nil {
		flights = []*model.FlightRecord{}
	}
	writeJSON(w, http.StatusOK, flights)
}

// HandleGet returns one flight with its events. "current" is the flight in progress.
// GET /api/flights/{id}
func (h *HistoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if id == currentFlightID {
		if h.session != nil {
			if rec, ok := h.session.Current(); ok {
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		http.Error(w, "no flight in progress", http.StatusNotFound)
		return
	}

	rec, err := h.flights.GetFlight(r.Context(), id)
	if err != nil {
		slog.Error("HistoryHandler: failed to load flight", "id", id, "error", err)
		http.Error(w, "failed to load flight", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "flight not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

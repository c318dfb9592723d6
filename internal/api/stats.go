package api

import (
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"liftoff/pkg/tracker"
)

// StatsHandler reports per-mission statistics and process diagnostics.
type StatsHandler struct {
	tracker *tracker.Tracker
	tel     *TelemetryHandler
	started time.Time

	mu     sync.Mutex
	maxMem uint64
}

func NewStatsHandler(t *tracker.Tracker, tel *TelemetryHandler) *StatsHandler {
	return &StatsHandler{
		tracker: t,
		tel:     tel,
		started: time.Now(),
	}
}

type MissionStatsDTO struct {
	Mission string `json:"mission"`
	tracker.MissionStats
	SuccessRate int64 `json:"success_rate"` // percent of attempts reaching orbit
}

type Diagnostics struct {
	MemoryMB    uint64  `json:"memory_mb"`
	MemoryMaxMB uint64  `json:"memory_max_mb"`
	Goroutines  int     `json:"goroutines"`
	UptimeSec   float64 `json:"uptime_sec"`
	Streams     int     `json:"streams"`
}

type StatsResponse struct {
	Diagnostics Diagnostics       `json:"diagnostics"`
	Missions    []MissionStatsDTO `json:"missions"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	resp := StatsResponse{
		Diagnostics: h.gatherDiagnostics(),
		Missions:    make([]MissionStatsDTO, 0, len(snapshot)),
	}

	for name, stats := range snapshot {
		rate := int64(0)
		if stats.Attempts > 0 {
			rate = (stats.Orbits * 100) / stats.Attempts
		}
		resp.Missions = append(resp.Missions, MissionStatsDTO{
			Mission:      name,
			MissionStats: stats,
			SuccessRate:  rate,
		})
	}
	sort.Slice(resp.Missions, func(i, j int) bool {
		return resp.Missions[i].Mission < resp.Missions[j].Mission
	})

	writeJSON(w, http.StatusOK, resp)
}

func (h *StatsHandler) gatherDiagnostics() Diagnostics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	h.mu.Lock()
	if ms.Sys > h.maxMem {
		h.maxMem = ms.Sys
	}
	maxMem := h.maxMem
	h.mu.Unlock()

	d := Diagnostics{
		MemoryMB:    bToMb(ms.Sys),
		MemoryMaxMB: bToMb(maxMem),
		Goroutines:  runtime.NumGoroutine(),
		UptimeSec:   time.Since(h.started).Seconds(),
	}
	if h.tel != nil {
		d.Streams = h.tel.Subscribers()
	}
	return d
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

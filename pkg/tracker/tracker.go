package tracker

import (
	"sync"
	"sync/atomic"

	"liftoff/pkg/model"
)

// Tracker tracks flight statistics per mission.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*MissionStats
}

// MissionStats holds the counters for one mission.
// Counters are accessed atomically, the records under the tracker lock.
type MissionStats struct {
	Attempts       int64   `json:"attempts"`
	Orbits         int64   `json:"orbits"`
	Crashes        int64   `json:"crashes"`
	Abandoned      int64   `json:"abandoned"`
	Malfunctions   int64   `json:"malfunctions"`
	Stagings       int64   `json:"stagings"`
	BestAltitudeKm float64 `json:"bestAltitudeKm"`
	FastestOrbitS  float64 `json:"fastestOrbitS,omitempty"` // 0 until the first orbit
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*MissionStats),
	}
}

// getStats returns the stats object for a mission, creating it if needed.
func (t *Tracker) getStats(mission string) *MissionStats {
	t.mu.RLock()
	s, ok := t.stats[mission]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok = t.stats[mission]; ok {
		return s
	}
	s = &MissionStats{}
	t.stats[mission] = s
	return s
}

// TrackLaunch counts an attempt.
func (t *Tracker) TrackLaunch(mission string) {
	atomic.AddInt64(&t.getStats(mission).Attempts, 1)
}

// TrackMalfunction counts an engine malfunction.
func (t *Tracker) TrackMalfunction(mission string) {
	atomic.AddInt64(&t.getStats(mission).Malfunctions, 1)
}

// TrackStaging counts a stage separation.
func (t *Tracker) TrackStaging(mission string) {
	atomic.AddInt64(&t.getStats(mission).Stagings, 1)
}

// TrackOutcome counts a finished flight and updates the mission records.
func (t *Tracker) TrackOutcome(rec *model.FlightRecord) {
	s := t.getStats(rec.Mission)
	switch rec.Outcome {
	case model.OutcomeOrbit:
		atomic.AddInt64(&s.Orbits, 1)
	case model.OutcomeCrashed:
		atomic.AddInt64(&s.Crashes, 1)
	case model.OutcomeAbandoned:
		atomic.AddInt64(&s.Abandoned, 1)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	s.BestAltitudeKm = max(s.BestAltitudeKm, rec.MaxAltitudeKm)
	if rec.Outcome == model.OutcomeOrbit && rec.Duration > 0 &&
		(s.FastestOrbitS == 0 || rec.Duration < s.FastestOrbitS) {
		s.FastestOrbitS = rec.Duration
	}
}

// Record counts a whole finished flight: the attempt, its hazards and its outcome.
// Used to seed the tracker from history.
func (t *Tracker) Record(rec *model.FlightRecord) {
	t.TrackLaunch(rec.Mission)
	if rec.StageSeparated {
		t.TrackStaging(rec.Mission)
	}
	if rec.Malfunctions > 0 {
		atomic.AddInt64(&t.getStats(rec.Mission).Malfunctions, int64(rec.Malfunctions))
	}
	t.TrackOutcome(rec)
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]MissionStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]MissionStats, len(t.stats))
	for k, v := range t.stats {
		result[k] = MissionStats{
			Attempts:       atomic.LoadInt64(&v.Attempts),
			Orbits:         atomic.LoadInt64(&v.Orbits),
			Crashes:        atomic.LoadInt64(&v.Crashes),
			Abandoned:      atomic.LoadInt64(&v.Abandoned),
			Malfunctions:   atomic.LoadInt64(&v.Malfunctions),
			Stagings:       atomic.LoadInt64(&v.Stagings),
			BestAltitudeKm: v.BestAltitudeKm,
			FastestOrbitS:  v.FastestOrbitS,
		}
	}
	return result
}

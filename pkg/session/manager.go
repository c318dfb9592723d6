// Package session turns the event stream of a flight into persisted flight records.
package session

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"liftoff/pkg/geo"
	"liftoff/pkg/logging"
	"liftoff/pkg/model"
	"liftoff/pkg/sim"
)

// Manager records the flight in progress and queues finished ones.
// It implements sim.EventRecorder.
type Manager struct {
	mu      sync.RWMutex
	site    geo.Point
	mission string
	current *model.FlightRecord
	done    []*model.FlightRecord
	now     func() time.Time
}

var _ sim.EventRecorder = (*Manager)(nil)

// NewManager creates a manager for flights launched from site.
func NewManager(site geo.Point) *Manager {
	return &Manager{site: site, now: time.Now}
}

// RecordEvent logs the event and folds it into the flight in progress.
// Launch opens a record; orbit, crash and reset close it.
func (m *Manager) RecordEvent(ev model.FlightEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = m.now()
	}
	logging.LogEvent(&ev)

	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.Type == model.EventLaunch {
		m.start(&ev)
	}
	r := m.current
	if r == nil {
		return
	}

	r.Events = append(r.Events, ev)
	r.MaxAltitudeKm = max(r.MaxAltitudeKm, ev.AltitudeKm)
	r.MaxSpeedKms = max(r.MaxSpeedKms, ev.SpeedKms)
	r.Duration = max(r.Duration, ev.Elapsed)

	switch ev.Type {
	case model.EventStaging:
		r.StageSeparated = true
	case model.EventMalfunction:
		r.Malfunctions++
	case model.EventOrbit:
		m.finish(model.OutcomeOrbit, "", ev.Timestamp)
	case model.EventCrash:
		reason, _, _ := strings.Cut(ev.Summary, ":")
		m.finish(model.OutcomeCrashed, strings.TrimSpace(reason), ev.Timestamp)
	case model.EventReset:
		m.finish(model.OutcomeAbandoned, "", ev.Timestamp)
	}
}

func (m *Manager) start(ev *model.FlightEvent) {
	if m.current != nil {
		m.finish(model.OutcomeAbandoned, "", ev.Timestamp)
	}
	mission := ev.Summary
	if mission == "" {
		mission = m.mission
	}
	m.current = &model.FlightRecord{
		ID:        uuid.NewString(),
		Mission:   mission,
		LaunchLat: m.site.Lat,
		LaunchLon: m.site.Lon,
		StartedAt: ev.Timestamp,
	}
}

func (m *Manager) finish(outcome, reason string, at time.Time) {
	r := m.current
	r.Outcome = outcome
	r.CrashReason = reason
	r.EndedAt = at
	m.done = append(m.done, r)
	m.current = nil
}

// Observe updates the flight in progress from a frame snapshot.
func (m *Manager) Observe(tel sim.Telemetry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mission = tel.Mission
	r := m.current
	if r == nil {
		return
	}
	r.MaxAltitudeKm = max(r.MaxAltitudeKm, tel.AltitudeKm)
	r.MaxSpeedKms = max(r.MaxSpeedKms, tel.SpeedKms)
	r.Duration = max(r.Duration, tel.FlightTime)
	r.FuelRemaining = tel.Fuel
	r.DownrangeKm = tel.DownrangeKm
}

// Current returns a copy of the flight in progress.
func (m *Manager) Current() (model.FlightRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return model.FlightRecord{}, false
	}
	r := *m.current
	r.Events = append([]model.FlightEvent(nil), m.current.Events...)
	return r, true
}

// Pending returns the number of finished flights waiting to be drained.
func (m *Manager) Pending() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.done)
}

// Drain returns the finished flights queued since the last call.
func (m *Manager) Drain() []*model.FlightRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.done
	m.done = nil
	return out
}

// Requeue puts flights back after a failed save.
func (m *Manager) Requeue(recs []*model.FlightRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done = append(recs, m.done...)
}

// Reset drops the flight in progress and anything queued.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	m.done = nil
}

// GetPersistentState encodes the flight in progress, or returns nil when there is none.
func (m *Manager) GetPersistentState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, nil
	}
	return json.Marshal(m.current)
}

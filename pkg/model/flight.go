package model

import "time"

// Flight event types.
const (
	EventLaunch             = "launch"
	EventStaging            = "staging"
	EventMalfunction        = "malfunction"
	EventMalfunctionCleared = "malfunction_cleared"
	EventBoost              = "boost"
	EventBoostDepleted      = "boost_depleted"
	EventOrbit              = "orbit"
	EventCrash              = "crash"
	EventQuizCorrect        = "quiz_correct"
	EventQuizIncorrect      = "quiz_incorrect"
	EventQuizTimeout        = "quiz_timeout"
	EventReset              = "reset"
)

// FlightEvent is a notable moment during a flight.
type FlightEvent struct {
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	Elapsed    float64   `json:"elapsed"`     // seconds since the session started
	AltitudeKm float64   `json:"altitude_km"` // km
	SpeedKms   float64   `json:"speed_kms"`   // km/s
	Timestamp  time.Time `json:"timestamp"`
}

// Flight outcomes.
const (
	OutcomeOrbit     = "orbit"
	OutcomeCrashed   = "crashed"
	OutcomeAbandoned = "abandoned"
)

// FlightRecord is the persisted summary of one run.
type FlightRecord struct {
	ID             string        `json:"id"`
	Mission        string        `json:"mission"`
	Outcome        string        `json:"outcome"`
	CrashReason    string        `json:"crash_reason,omitempty"`
	MaxAltitudeKm  float64       `json:"max_altitude_km"`
	MaxSpeedKms    float64       `json:"max_speed_kms"`
	FuelRemaining  float64       `json:"fuel_remaining"`
	Duration       float64       `json:"duration"` // sim seconds
	StageSeparated bool          `json:"stage_separated"`
	Malfunctions   int           `json:"malfunctions"`
	LaunchLat      float64       `json:"launch_lat"`
	LaunchLon      float64       `json:"launch_lon"`
	DownrangeKm    float64       `json:"downrange_km"`
	StartedAt      time.Time     `json:"started_at"`
	EndedAt        time.Time     `json:"ended_at"`
	Events         []FlightEvent `json:"events,omitempty"`
}

package sim

import "liftoff/pkg/quiz"

// HazardFlags summarises the hazard state for display.
type HazardFlags struct {
	StageSeparated      bool    `json:"stageSeparated"`
	Malfunction         bool    `json:"malfunction"`
	MalfunctionTimeLeft float64 `json:"malfunctionTimeLeft"`
	Boost               bool    `json:"boost"`
	BoostFuel           float64 `json:"boostFuel"`
	WindGust            float64 `json:"windGust"`
}

// Telemetry is the snapshot produced after every frame.
type Telemetry struct {
	Mission    string    `json:"mission"`
	GameState  GameState `json:"gameState"`
	Elapsed    float64   `json:"elapsed"`    // session seconds
	FlightTime float64   `json:"flightTime"` // seconds since launch

	AltitudeKm    float64 `json:"altitudeKm"`
	SpeedKms      float64 `json:"speedKms"`
	ClimbRateKms  float64 `json:"climbRateKms"`
	PositionX     float64 `json:"positionX"`
	PositionZ     float64 `json:"positionZ"`
	RotationX     float64 `json:"rotationX"`
	RotationZ     float64 `json:"rotationZ"`
	Fuel          float64 `json:"fuel"`
	FuelPercent   float64 `json:"fuelPercent"`
	Thrusting     bool    `json:"thrusting"`
	ThrustBlocked bool    `json:"thrustBlocked"`

	MissionProgress     float64     `json:"missionProgress"`
	Hazards             HazardFlags `json:"hazards"`
	OrbitalInsertStatus string      `json:"orbitalInsertStatus,omitempty"`
	CrashReason         string      `json:"crashReason,omitempty"`
	Celebrating         bool        `json:"celebrating"`
	OrbitView           bool        `json:"orbitView"`

	GForce             float64 `json:"gForce"`
	Mach               float64 `json:"mach"`
	AtmosphericDensity float64 `json:"atmosphericDensity"`
	FuelBurnRate       float64 `json:"fuelBurnRate"` // per second
	ApogeeKm           float64 `json:"apogeeKm"`
	Escaping           bool    `json:"escaping"` // no apex under current gravity
	PerigeeKm          float64 `json:"perigeeKm"`
	TemperatureC       float64 `json:"temperatureC"`

	ParticleScale float64      `json:"particleScale"`
	Quiz          *quiz.Status `json:"quiz,omitempty"`

	// Filled by the host from its ground track.
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DownrangeKm float64 `json:"downrangeKm"`
	Heading     float64 `json:"heading"`
}

package sim

import "math"

// Malfunction is a temporary engine cut.
type Malfunction struct {
	Active   bool    `json:"active"`
	TimeLeft float64 `json:"timeLeft"`
}

// Boost is the player-triggered thrust multiplier with its own fuel pool.
type Boost struct {
	Active        bool    `json:"active"`
	FuelRemaining float64 `json:"fuelRemaining"`
}

// HazardState is session scoped and cleared on reset.
type HazardState struct {
	Malfunction    Malfunction `json:"malfunction"`
	StageSeparated bool        `json:"stageSeparated"`
	WindGust       float64     `json:"windGust"`
	Boost          Boost       `json:"boost"`
}

// NewHazardState returns a cleared hazard state with a full boost pool.
func NewHazardState() HazardState {
	return HazardState{Boost: Boost{FuelRemaining: BoostCapacity}}
}

// Modifiers are the hazard outputs consumed by the integrator for one frame.
type Modifiers struct {
	ThrustMultiplier float64
	FuelRateFactor   float64
	DragMultiplier   float64
	WindX            float64
	WindZ            float64
}

// WindGust is a deterministic function of elapsed seconds.
func WindGust(elapsed, amplitude float64) float64 {
	return math.Sin(elapsed*1.2) * math.Cos(elapsed*0.7) * amplitude
}

// TryStage separates the first stage once. It reports whether separation
// happened on this call. Dry mass keeps a positive floor and stage 2 fuel
// never exceeds maxFuel when maxFuel is positive.
func (h *HazardState) TryStage(enabled bool, altKm float64, thrustActive bool, maxFuel float64, fs *FlightState) bool {
	if !enabled || h.StageSeparated || altKm <= AtmosphereTopKm || !thrustActive {
		return false
	}
	h.StageSeparated = true
	fs.Mass = math.Max(fs.Mass-Stage1FuelMass, math.Min(fs.Mass, MinDryMass))
	fs.Fuel = Stage2Fuel
	if maxFuel > 0 {
		fs.Fuel = math.Min(Stage2Fuel, maxFuel)
	}
	return true
}

// UpdateMalfunction counts down an active fault or rolls for a new one while
// the engine burns. It reports whether a fault started or cleared.
func (h *HazardState) UpdateMalfunction(enabled, burning bool, delta float64, rng Source) (started, cleared bool) {
	if h.Malfunction.Active {
		h.Malfunction.TimeLeft -= delta
		if h.Malfunction.TimeLeft <= 0 {
			h.Malfunction = Malfunction{}
			return false, true
		}
		return false, false
	}
	if !enabled || !burning {
		return false, false
	}
	if rng.Float64() < MalfunctionChance*delta {
		h.Malfunction = Malfunction{Active: true, TimeLeft: MalfunctionDuration}
		return true, false
	}
	return false, false
}

// ActivateBoost turns the boost on if the pool has fuel left.
func (h *HazardState) ActivateBoost() bool {
	if h.Boost.Active || h.Boost.FuelRemaining <= 0 {
		return false
	}
	h.Boost.Active = true
	return true
}

// DrainBoost consumes the boost pool while the engine burns and reports
// whether the pool ran dry on this frame.
func (h *HazardState) DrainBoost(burning bool, delta float64) bool {
	if !h.Boost.Active || !burning {
		return false
	}
	h.Boost.FuelRemaining -= BoostDrainRate * delta
	if h.Boost.FuelRemaining > 0 {
		return false
	}
	h.Boost = Boost{}
	return true
}

// Modifiers derives this frame's integrator inputs.
func (h *HazardState) Modifiers(altKm float64) Modifiers {
	m := Modifiers{ThrustMultiplier: 1, FuelRateFactor: 1}
	if h.Boost.Active && h.Boost.FuelRemaining > 0 {
		m.ThrustMultiplier = BoostMultiplier
		m.FuelRateFactor = BoostFuelFactor
	}
	if h.Malfunction.Active {
		m.ThrustMultiplier = 0
		m.FuelRateFactor = 0
	}
	density := AtmosphericDensity(altKm)
	m.DragMultiplier = density
	m.WindX = h.WindGust * density
	m.WindZ = h.WindGust * WindFactorZ * density
	return m
}

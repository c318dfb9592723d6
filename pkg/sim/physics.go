package sim

import "math"

// ClampDelta bounds a frame delta to [0, MaxDelta].
func ClampDelta(delta float64) float64 {
	if delta < 0 || math.IsNaN(delta) {
		return 0
	}
	return math.Min(delta, MaxDelta)
}

// Inertia is the effective mass divisor, heavier with fuel on board.
func Inertia(mass, fuel float64) float64 {
	return (mass + fuel*FuelInertia) / 1000
}

// CalculateThrust is a step function: full power while burning with fuel left.
func CalculateThrust(power float64, thrustActive bool, fuel float64) float64 {
	if thrustActive && fuel > 0 {
		return power
	}
	return 0
}

// CalculateAcceleration returns the vertical acceleration under quadratic drag.
func CalculateAcceleration(thrust, gravity, drag, mass, fuel, velocity float64) float64 {
	return (thrust - gravity - drag*velocity*math.Abs(velocity)) / Inertia(mass, fuel)
}

// ClampGround stops the vehicle on the ground when it is moving down through it.
func ClampGround(position, velocity float64) (float64, float64) {
	if position <= GroundLevel && velocity < 0 {
		return GroundLevel, 0
	}
	return position, velocity
}

// Integration is the result of one vertical integration step.
type Integration struct {
	Velocity float64
	Position float64
	Fuel     float64
}

// UpdatePhysics advances velocity, position and fuel with semi-implicit Euler.
// drainRate is the fuel consumed per second of burn before FuelDrainFactor.
func UpdatePhysics(velocity, acceleration, position, delta, drainRate float64, thrustActive bool, fuel float64) Integration {
	delta = ClampDelta(delta)

	velocity += acceleration * delta * FrameRate
	position += velocity * delta * FrameRate
	position, velocity = ClampGround(position, velocity)

	if thrustActive && fuel > 0 {
		fuel = math.Max(0, fuel-drainRate*delta*FuelDrainFactor)
	}
	return Integration{Velocity: velocity, Position: position, Fuel: fuel}
}

// AltitudeKm converts a scene height to kilometres.
func AltitudeKm(position float64) float64 {
	return position * ScaleFactor
}

// SpeedKms converts a per-frame velocity magnitude to km/s.
func SpeedKms(magnitude float64) float64 {
	return magnitude * FrameRate * ScaleFactor
}

// GForce is the load felt by the crew: one g plus the net vertical
// acceleration in units of base gravity. Never negative.
func GForce(accel, baseGravity float64) float64 {
	if baseGravity <= 0 {
		return 0
	}
	return math.Max(0, 1+accel/baseGravity)
}

package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// UpdateRotation applies one frame of player input to an angle. Without input
// the angle decays toward level.
func UpdateRotation(rotation, input float64) float64 {
	if input == 0 {
		rotation *= RotationDamping
		if math.Abs(rotation) < 1e-6 {
			rotation = 0
		}
	} else {
		rotation += clamp(input, -1, 1) * RotationGain
	}
	return clamp(rotation, -MaxRotation, MaxRotation)
}

// ThrustDirection projects pitch (rotX) and roll (rotZ) onto a unit vector
// (x, y, z) with y pointing up. Roll tips thrust toward -x, pitch toward +z.
func ThrustDirection(rotX, rotZ float64) [3]float64 {
	dir := []float64{
		-math.Sin(rotZ),
		math.Cos(rotX) * math.Cos(rotZ),
		math.Sin(rotX),
	}
	if n := floats.Norm(dir, 2); n > 0 {
		floats.Scale(1/n, dir)
	}
	return [3]float64{dir[0], dir[1], dir[2]}
}

// LateralDamping is the per-frame lateral velocity multiplier at an altitude.
func LateralDamping(altKm float64) float64 {
	if altKm < AtmosphereTopKm {
		return LateralDampingLow
	}
	return LateralDampingHi
}

// UpdateLateral advances one lateral velocity component and clamps it.
func UpdateLateral(velocity, accel, delta, altKm float64) float64 {
	velocity += accel * ClampDelta(delta) * FrameRate
	velocity *= LateralDamping(altKm)
	return clamp(velocity, -MaxLateralSpeed, MaxLateralSpeed)
}

// Magnitude returns the euclidean length of the velocity components.
func Magnitude(components ...float64) float64 {
	return floats.Norm(components, 2)
}

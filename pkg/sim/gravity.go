package sim

import "math"

// Gravity returns the effective gravity at a scene height.
func Gravity(base, position float64) float64 {
	return GravityAtKm(base, AltitudeKm(position))
}

// GravityAtKm applies the altitude bands:
//
//	< 50 km     base
//	50-200 km   linear fade, never below the space fraction
//	200-500 km  base * 0.05
//	>= 500 km   0
func GravityAtKm(base, altKm float64) float64 {
	switch {
	case altKm < GravityTransitionStart:
		return base
	case altKm < GravityTransitionEnd:
		t := (altKm - GravityTransitionStart) / (GravityTransitionEnd - GravityTransitionStart)
		return math.Max(base*GravitySpaceFraction, base*(1-t))
	case altKm < GravitySpaceEnd:
		return base * GravitySpaceFraction
	default:
		return 0
	}
}

// AtmosphericDensity is the density relative to sea level.
func AtmosphericDensity(altKm float64) float64 {
	if altKm <= 0 {
		return 1
	}
	return math.Exp(-altKm / ScaleHeightKm)
}

package sim

import "math"

// Scale and frame constants.
const (
	GroundLevel = 0.0
	// ScaleFactor converts scene units to kilometres.
	ScaleFactor = 0.1
	// FrameRate is the reference rate the integration constants are tuned against.
	FrameRate = 60.0
	// MaxDelta bounds a single integration step in seconds.
	MaxDelta = 0.05
	// FuelInertia is how much one unit of fuel weighs relative to dry mass.
	FuelInertia = 5.0
	// FuelDrainFactor scales the configured consumption rate.
	FuelDrainFactor = 2.0
)

// Gravity bands in kilometres.
const (
	GravityTransitionStart = 50.0
	GravityTransitionEnd   = 200.0
	GravitySpaceEnd        = 500.0
	GravitySpaceFraction   = 0.05
)

// Atmosphere.
const (
	AtmosphereTopKm = 100.0
	ScaleHeightKm   = 8.5
	SpeedOfSoundKms = 0.343
	AmbientTempC    = 15.0
	MaxTemperatureC = 1650.0
	HeatingRate     = 3.0
	CoolingRate     = 0.2
	MaxSpeedKms     = 11.2 // crash speed at ReferenceDrag
	ReferenceDrag   = 0.0001
)

// Attitude and lateral control.
const (
	MaxRotation       = math.Pi / 1.8
	RotationGain      = 0.03
	RotationDamping   = 0.9
	MaxLateralSpeed   = 15.0
	LateralDampingLow = 0.96  // below AtmosphereTopKm
	LateralDampingHi  = 0.995 // above AtmosphereTopKm
	WindFactorZ       = 0.375
)

// Hazards.
const (
	Stage1FuelMass      = 200.0
	Stage2Fuel          = 150.0
	MinDryMass          = 50.0 // staging never drops dry mass below this
	MalfunctionChance   = 0.02 // per second of burn
	MalfunctionDuration = 3.0
	BoostMultiplier     = 1.8
	BoostCapacity       = 100.0
	BoostDrainRate      = 25.0 // per second
	BoostFuelFactor     = 2.0
)

// Orbit.
const (
	SimpleOrbitKm       = 1000.0
	PrecisionMinKm      = 950.0
	PrecisionMaxKm      = 1050.0
	PrecisionMinKms     = 7.5
	PrecisionMaxKms     = 8.2
	CelebrationDuration = 5.0
	OrbitViewDelay      = 3.0
)

package sim

import "liftoff/pkg/mission"

// Input is the player's control state for one frame.
type Input struct {
	Thrust bool    `json:"thrust"`
	Pitch  float64 `json:"pitch"` // [-1, 1]
	Roll   float64 `json:"roll"`  // [-1, 1]
}

// Params are the tunable physics parameters.
type Params struct {
	ThrustPower         float64 `json:"thrustPower"`
	Gravity             float64 `json:"gravity"`
	Mass                float64 `json:"mass"`
	DragCoefficient     float64 `json:"dragCoefficient"`
	FuelConsumptionRate float64 `json:"fuelConsumptionRate"`
	ParticleScale       float64 `json:"particleScale"` // cosmetic, passed through
	UnlimitedFuel       bool    `json:"unlimitedFuel"`
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		ThrustPower:         0.0138,
		Gravity:             0.0018,
		Mass:                1200,
		DragCoefficient:     0.0001,
		FuelConsumptionRate: 0.3,
		ParticleScale:       1.0,
	}
}

// FlightState is the per-session vehicle record mutated once per frame.
// Velocities are in scene units per reference frame.
type FlightState struct {
	PositionX        float64 `json:"positionX"`
	PositionY        float64 `json:"positionY"`
	PositionZ        float64 `json:"positionZ"`
	VerticalVelocity float64 `json:"verticalVelocity"`
	LateralVelocityX float64 `json:"lateralVelocityX"`
	LateralVelocityZ float64 `json:"lateralVelocityZ"`
	Fuel             float64 `json:"fuel"`
	RotationX        float64 `json:"rotationX"`
	RotationZ        float64 `json:"rotationZ"`
	Mass             float64 `json:"mass"`
	Temperature      float64 `json:"temperature"` // degrees C
}

// InitialFlightState is the vehicle on the pad for a mission.
func InitialFlightState(m mission.Config, p Params) FlightState {
	return FlightState{
		PositionY:   GroundLevel,
		Fuel:        m.Fuel,
		Mass:        p.Mass,
		Temperature: AmbientTempC,
	}
}

// AltitudeKm returns the altitude in kilometres.
func (fs FlightState) AltitudeKm() float64 {
	return AltitudeKm(fs.PositionY)
}

// SpeedKms returns the total speed in km/s.
func (fs FlightState) SpeedKms() float64 {
	return SpeedKms(Magnitude(fs.VerticalVelocity, fs.LateralVelocityX, fs.LateralVelocityZ))
}

// DampVelocity scales every velocity component.
func (fs *FlightState) DampVelocity(factor float64) {
	fs.VerticalVelocity *= factor
	fs.LateralVelocityX *= factor
	fs.LateralVelocityZ *= factor
}

package config

// Persistent state keys (Registry)
const (
	KeyMission             = "mission"
	KeyQuizEnabled         = "quiz_enabled"
	KeyThrustPower         = "physics_thrust_power"
	KeyGravity             = "physics_gravity"
	KeyMass                = "physics_mass"
	KeyDragCoefficient     = "physics_drag_coefficient"
	KeyFuelConsumptionRate = "physics_fuel_consumption_rate"
	KeyParticleScale       = "physics_particle_scale"
	KeyUnlimitedFuel       = "physics_unlimited_fuel"
)

package config

import "liftoff/pkg/sim"

// SimParams converts the physics section to flight core tunables.
func (p PhysicsConfig) SimParams() sim.Params {
	return sim.Params{
		ThrustPower:         p.ThrustPower,
		Gravity:             p.Gravity,
		Mass:                p.Mass,
		DragCoefficient:     p.DragCoefficient,
		FuelConsumptionRate: p.FuelConsumptionRate,
		ParticleScale:       p.ParticleScale,
		UnlimitedFuel:       p.UnlimitedFuel,
	}
}

// PhysicsFrom converts flight core tunables to the physics section.
func PhysicsFrom(p sim.Params) PhysicsConfig {
	return PhysicsConfig{
		ThrustPower:         p.ThrustPower,
		Gravity:             p.Gravity,
		Mass:                p.Mass,
		DragCoefficient:     p.DragCoefficient,
		FuelConsumptionRate: p.FuelConsumptionRate,
		ParticleScale:       p.ParticleScale,
		UnlimitedFuel:       p.UnlimitedFuel,
	}
}

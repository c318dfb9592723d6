package config

import (
	"context"
	"strconv"
	"time"

	"liftoff/pkg/store"
)

// Provider defines the interface for accessing unified configuration.
type Provider interface {
	// Host
	SimProvider(ctx context.Context) string
	Frame(ctx context.Context) time.Duration
	TelemetryLoop(ctx context.Context) time.Duration

	// Flight
	Mission(ctx context.Context) string
	QuizEnabled(ctx context.Context) bool
	Physics(ctx context.Context) PhysicsConfig

	// Raw access (for components that need deep access)
	AppConfig() *Config
}

// UnifiedProvider implements Provider by bridging static Config and persistent Store.
// Values saved in the store win over the file.
type UnifiedProvider struct {
	base  *Config
	store store.StateStore
}

// NewProvider creates a new UnifiedProvider. st may be nil.
func NewProvider(base *Config, st store.StateStore) *UnifiedProvider {
	return &UnifiedProvider{
		base:  base,
		store: st,
	}
}

func (p *UnifiedProvider) AppConfig() *Config { return p.base }

func (p *UnifiedProvider) SimProvider(ctx context.Context) string {
	if p.base.Sim.Provider == "" {
		return "loop"
	}
	return p.base.Sim.Provider
}

func (p *UnifiedProvider) Frame(ctx context.Context) time.Duration {
	return p.base.Ticker.Frame.Std()
}

func (p *UnifiedProvider) TelemetryLoop(ctx context.Context) time.Duration {
	return p.base.Ticker.TelemetryLoop.Std()
}

func (p *UnifiedProvider) Mission(ctx context.Context) string {
	return p.getString(ctx, KeyMission, p.base.Sim.Mission)
}

func (p *UnifiedProvider) QuizEnabled(ctx context.Context) bool {
	return p.getBool(ctx, KeyQuizEnabled, p.base.Quiz.Enabled)
}

func (p *UnifiedProvider) Physics(ctx context.Context) PhysicsConfig {
	b := p.base.Physics
	return PhysicsConfig{
		ThrustPower:         p.getFloat64(ctx, KeyThrustPower, b.ThrustPower),
		Gravity:             p.getFloat64(ctx, KeyGravity, b.Gravity),
		Mass:                p.getFloat64(ctx, KeyMass, b.Mass),
		DragCoefficient:     p.getFloat64(ctx, KeyDragCoefficient, b.DragCoefficient),
		FuelConsumptionRate: p.getFloat64(ctx, KeyFuelConsumptionRate, b.FuelConsumptionRate),
		ParticleScale:       p.getFloat64(ctx, KeyParticleScale, b.ParticleScale),
		UnlimitedFuel:       p.getBool(ctx, KeyUnlimitedFuel, b.UnlimitedFuel),
	}
}

// SavePhysics persists tunables so they survive a restart.
func (p *UnifiedProvider) SavePhysics(ctx context.Context, pc PhysicsConfig) error {
	if p.store == nil {
		return nil
	}
	values := map[string]string{
		KeyThrustPower:         formatFloat(pc.ThrustPower),
		KeyGravity:             formatFloat(pc.Gravity),
		KeyMass:                formatFloat(pc.Mass),
		KeyDragCoefficient:     formatFloat(pc.DragCoefficient),
		KeyFuelConsumptionRate: formatFloat(pc.FuelConsumptionRate),
		KeyParticleScale:       formatFloat(pc.ParticleScale),
		KeyUnlimitedFuel:       strconv.FormatBool(pc.UnlimitedFuel),
	}
	for k, v := range values {
		if err := p.store.SetState(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

// SaveMission persists the selected mission name.
func (p *UnifiedProvider) SaveMission(ctx context.Context, name string) error {
	if p.store == nil {
		return nil
	}
	return p.store.SetState(ctx, KeyMission, name)
}

// --- Helpers ---

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (p *UnifiedProvider) getString(ctx context.Context, key, fallback string) string {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			return val
		}
	}
	return fallback
}

func (p *UnifiedProvider) getFloat64(ctx context.Context, key string, fallback float64) float64 {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return f
			}
		}
	}
	return fallback
}

func (p *UnifiedProvider) getBool(ctx context.Context, key string, fallback bool) bool {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			return val == "true"
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"liftoff/pkg/sim"
)

// Environment overrides applied on top of the file values.
const (
	EnvAddress = "LIFTOFF_ADDRESS"
	EnvSeed    = "LIFTOFF_SEED"
	EnvMission = "LIFTOFF_MISSION"
)

// Config holds the application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	DB      DBConfig      `yaml:"db"`
	Server  ServerConfig  `yaml:"server"`
	Ticker  TickerConfig  `yaml:"ticker"`
	Physics PhysicsConfig `yaml:"physics"`
	Sim     SimConfig     `yaml:"sim"`
	Quiz    QuizConfig    `yaml:"quiz"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	Events   LogSettings `yaml:"events"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path      string   `yaml:"path"`
	Retention Duration `yaml:"retention"` // flight history kept, 0 keeps everything
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// TickerConfig holds ticker settings.
type TickerConfig struct {
	Frame         Duration `yaml:"frame"`          // host loop step
	TelemetryLoop Duration `yaml:"telemetry_loop"` // scheduler poll
}

// PhysicsConfig holds the tunable physics parameters.
type PhysicsConfig struct {
	ThrustPower         float64 `yaml:"thrust_power"`
	Gravity             float64 `yaml:"gravity"`
	Mass                float64 `yaml:"mass"`
	DragCoefficient     float64 `yaml:"drag_coefficient"`
	FuelConsumptionRate float64 `yaml:"fuel_consumption_rate"`
	ParticleScale       float64 `yaml:"particle_scale"`
	UnlimitedFuel       bool    `yaml:"unlimited_fuel"`
}

// SimConfig holds settings for the flight host.
type SimConfig struct {
	Provider     string  `yaml:"provider"` // "loop", "autopilot"
	Seed         uint64  `yaml:"seed"`     // 0 seeds from the clock
	Mission      string  `yaml:"mission"`
	LaunchLat    float64 `yaml:"launch_lat"`
	LaunchLon    float64 `yaml:"launch_lon"`
	MissionsFile string  `yaml:"missions_file"` // optional YAML catalog merged over the built-ins
}

// QuizConfig holds settings for the math challenge.
type QuizConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
			Events: LogSettings{
				Path:  "./logs/events.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path:      "./data/liftoff.db",
			Retention: Duration(30 * Day),
		},
		Server: ServerConfig{
			Address: "localhost:1969",
		},
		Ticker: TickerConfig{
			Frame:         Duration(16 * time.Millisecond),
			TelemetryLoop: Duration(250 * time.Millisecond),
		},
		Physics: PhysicsFrom(sim.DefaultParams()),
		Sim: SimConfig{
			Provider:  "loop",
			Mission:   "Low Orbit",
			LaunchLat: 28.5721, // LC-39A
			LaunchLon: -80.6480,
		},
		Quiz: QuizConfig{
			Enabled: false,
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// An existing file is merged over the defaults and never written back.
// Environment overrides are applied last and are not persisted either.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	expandPaths(cfg)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandPaths resolves $VAR references in file paths. The file keeps the raw form.
func expandPaths(cfg *Config) {
	cfg.DB.Path = os.ExpandEnv(cfg.DB.Path)
	cfg.Log.Server.Path = os.ExpandEnv(cfg.Log.Server.Path)
	cfg.Log.Requests.Path = os.ExpandEnv(cfg.Log.Requests.Path)
	cfg.Log.Events.Path = os.ExpandEnv(cfg.Log.Events.Path)
	cfg.Sim.MissionsFile = os.ExpandEnv(cfg.Sim.MissionsFile)
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvAddress); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv(EnvMission); v != "" {
		cfg.Sim.Mission = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", EnvSeed, v, err)
		}
		cfg.Sim.Seed = seed
	}
	return nil
}

// Validate rejects values the host cannot run with.
func (c *Config) Validate() error {
	switch c.Sim.Provider {
	case "loop", "autopilot":
	default:
		return fmt.Errorf("invalid sim provider '%s': must be 'loop' or 'autopilot'", c.Sim.Provider)
	}
	if c.Ticker.Frame <= 0 {
		return fmt.Errorf("ticker.frame must be positive, got %s", time.Duration(c.Ticker.Frame))
	}
	if c.Physics.Mass <= 0 {
		return fmt.Errorf("physics.mass must be positive, got %g", c.Physics.Mass)
	}
	if c.Sim.LaunchLat < -90 || c.Sim.LaunchLat > 90 {
		return fmt.Errorf("sim.launch_lat out of range: %g", c.Sim.LaunchLat)
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Liftoff Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Enum hints, matched with their indentation.
	reProvider := regexp.MustCompile(`(?m)^(\s+)provider:`)
	data = reProvider.ReplaceAll(data, []byte("${1}# Options: loop, autopilot\n${1}provider:"))

	reLevel := regexp.MustCompile(`(?m)^(\s+)level:`)
	data = reLevel.ReplaceAll(data, []byte("${1}# Options: TRACE, DEBUG, INFO, WARN, ERROR\n${1}level:"))

	reMission := regexp.MustCompile(`(?m)^(\s+)mission:`)
	data = reMission.ReplaceAll(data, []byte("${1}# Built-in: Karman Line, Low Orbit, Two-Stage Orbit, Precision Insertion\n${1}mission:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault writes the default configuration to path unless a file is already there.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}

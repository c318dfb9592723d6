// Package mission defines the mission presets a flight is started from.
package mission

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownMission is returned when a mission name is not in the catalog.
var ErrUnknownMission = errors.New("unknown mission")

// Features toggles the optional hazard subsystems for a mission.
type Features struct {
	EnableStaging        bool `json:"enableStaging" yaml:"enable_staging"`
	EnableMalfunction    bool `json:"enableMalfunction" yaml:"enable_malfunction"`
	EnablePrecisionOrbit bool `json:"enablePrecisionOrbit" yaml:"enable_precision_orbit"`
	EnableTemperature    bool `json:"enableTemperature" yaml:"enable_temperature"`
}

// Config is an immutable mission preset.
type Config struct {
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description" yaml:"description"`
	TargetAltitudeKm float64  `json:"targetAltitudeKm" yaml:"target_altitude_km"`
	Fuel             float64  `json:"fuel" yaml:"fuel"`
	Gravity          float64  `json:"gravity" yaml:"gravity"`
	WindAmplitude    float64  `json:"windAmplitude" yaml:"wind_amplitude"`
	Difficulty       int      `json:"difficulty" yaml:"difficulty"` // 1-3
	Features         Features `json:"features" yaml:"features"`
}

// Progress returns the percentage of the target altitude reached, clamped to [0, 100].
func (c Config) Progress(altitudeKm float64) float64 {
	if c.TargetAltitudeKm <= 0 {
		return 0
	}
	p := altitudeKm / c.TargetAltitudeKm * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Tier returns the difficulty clamped to the supported 1-3 range.
func (c Config) Tier() int {
	switch {
	case c.Difficulty < 1:
		return 1
	case c.Difficulty > 3:
		return 3
	}
	return c.Difficulty
}

// Catalog is a set of missions addressable by name. Its contents can be
// replaced as a whole with Swap.
type Catalog struct {
	mu       sync.RWMutex
	missions []Config
	byName   map[string]Config
}

// NewCatalog builds a catalog. Later entries win on duplicate names.
func NewCatalog(missions []Config) *Catalog {
	c := &Catalog{byName: make(map[string]Config, len(missions))}
	index := make(map[string]int, len(missions))
	for _, m := range missions {
		key := strings.ToLower(m.Name)
		if i, dup := index[key]; dup {
			c.missions[i] = m
		} else {
			index[key] = len(c.missions)
			c.missions = append(c.missions, m)
		}
		c.byName[key] = m
	}
	return c
}

// Swap replaces the contents with those of other.
func (c *Catalog) Swap(other *Catalog) {
	other.mu.RLock()
	missions, byName := other.missions, other.byName
	other.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.missions = missions
	c.byName = byName
}

// Get returns the mission with the given name (case-insensitive).
func (c *Catalog) Get(name string) (Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownMission, name)
	}
	return m, nil
}

// All returns the missions in catalog order.
func (c *Catalog) All() []Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Config, len(c.missions))
	copy(out, c.missions)
	return out
}

// Names returns the mission names sorted by difficulty, then name.
func (c *Catalog) Names() []string {
	ms := c.All()
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Difficulty != ms[j].Difficulty {
			return ms[i].Difficulty < ms[j].Difficulty
		}
		return ms[i].Name < ms[j].Name
	})
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

// Default returns the first mission of the catalog.
func (c *Catalog) Default() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.missions) == 0 {
		return Presets()[0]
	}
	return c.missions[0]
}

type catalogFile struct {
	Missions []Config `yaml:"missions"`
}

// LoadCatalog reads missions from a YAML file and merges them over the built-in presets.
// An empty path yields the presets only.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read missions file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse missions file: %w", err)
	}

	for i, m := range f.Missions {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("mission %d has no name", i)
		}
	}

	return NewCatalog(append(Presets(), f.Missions...)), nil
}

// DefaultCatalog returns a catalog of the built-in presets.
func DefaultCatalog() *Catalog {
	return NewCatalog(Presets())
}

// Presets returns the built-in missions.
func Presets() []Config {
	return []Config{
		{
			Name:             "Karman Line",
			Description:      "Punch through the atmosphere to 100 km.",
			TargetAltitudeKm: 100,
			Fuel:             360,
			Gravity:          0.0018,
			WindAmplitude:    0.0002,
			Difficulty:       1,
		},
		{
			Name:             "Low Orbit",
			Description:      "Climb to a 1000 km orbit.",
			TargetAltitudeKm: 1000,
			Fuel:             360,
			Gravity:          0.0018,
			WindAmplitude:    0.0003,
			Difficulty:       1,
		},
		{
			Name:             "Two-Stage Orbit",
			Description:      "Reach orbit with staging and an unreliable engine.",
			TargetAltitudeKm: 1000,
			Fuel:             420,
			Gravity:          0.0020,
			WindAmplitude:    0.0004,
			Difficulty:       2,
			Features: Features{
				EnableStaging:     true,
				EnableMalfunction: true,
			},
		},
		{
			Name:             "Precision Insertion",
			Description:      "Hit the 1000 km window at orbital speed without burning up.",
			TargetAltitudeKm: 1000,
			Fuel:             450,
			Gravity:          0.0022,
			WindAmplitude:    0.0006,
			Difficulty:       3,
			Features: Features{
				EnableStaging:        true,
				EnableMalfunction:    true,
				EnablePrecisionOrbit: true,
				EnableTemperature:    true,
			},
		},
	}
}

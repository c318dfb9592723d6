package geo

import (
	"sync"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// GroundTrack records the sub-vehicle point of a flight around a launch site.
type GroundTrack struct {
	mu        sync.RWMutex
	site      Point
	path      orb.LineString
	minStepKm float64
}

// NewGroundTrack starts a track at the launch site. Samples closer than
// minStepKm to the previous one are dropped.
func NewGroundTrack(site Point, minStepKm float64) *GroundTrack {
	return &GroundTrack{
		site:      site,
		path:      orb.LineString{site.Orb()},
		minStepKm: minStepKm,
	}
}

// Site returns the launch site.
func (g *GroundTrack) Site() Point {
	return g.site
}

// Push adds the position east/north of the site in km and returns it.
func (g *GroundTrack) Push(eastKm, northKm float64) Point {
	p := Offset(g.site, eastKm, northKm)

	g.mu.Lock()
	defer g.mu.Unlock()
	last := g.path[len(g.path)-1]
	if orbgeo.DistanceHaversine(last, p.Orb()) >= g.minStepKm*1000 {
		g.path = append(g.path, p.Orb())
	}
	return p
}

// Current returns the latest recorded point.
func (g *GroundTrack) Current() Point {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return FromOrb(g.path[len(g.path)-1])
}

// DownrangeKm is the great-circle distance from the site to the latest point.
func (g *GroundTrack) DownrangeKm() float64 {
	return Distance(g.site, g.Current()) / 1000
}

// LengthKm is the length of the recorded path.
func (g *GroundTrack) LengthKm() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return orbgeo.LengthHaversine(g.path) / 1000
}

// Heading is the bearing over the last samples in the window, or 0 when stationary.
func (g *GroundTrack) Heading(window int) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.path) < 2 {
		return 0
	}
	if window < 2 {
		window = 2
	}
	first := len(g.path) - window
	if first < 0 {
		first = 0
	}
	return Bearing(FromOrb(g.path[first]), FromOrb(g.path[len(g.path)-1]))
}

// Reset clears the path back to the launch site.
func (g *GroundTrack) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.path = orb.LineString{g.site.Orb()}
}

// FeatureCollection renders the site and path as GeoJSON.
func (g *GroundTrack) FeatureCollection(props map[string]interface{}) *geojson.FeatureCollection {
	g.mu.RLock()
	path := make(orb.LineString, len(g.path))
	copy(path, g.path)
	g.mu.RUnlock()

	fc := geojson.NewFeatureCollection()

	site := geojson.NewFeature(g.site.Orb())
	site.Properties["kind"] = "launch_site"
	fc.Append(site)

	track := geojson.NewFeature(path)
	track.Properties["kind"] = "ground_track"
	for k, v := range props {
		track.Properties[k] = v
	}
	fc.Append(track)
	return fc
}

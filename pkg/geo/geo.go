// Package geo projects the vehicle's horizontal displacement onto the globe.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Orb converts to an orb point ([lon, lat] order).
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromOrb converts an orb point.
func FromOrb(p orb.Point) Point {
	return Point{Lat: p.Lat(), Lon: p.Lon()}
}

// Distance returns the haversine distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	return orbgeo.DistanceHaversine(p1.Orb(), p2.Orb())
}

// DestinationPoint returns the point reached from start after distMeters on a bearing in degrees.
func DestinationPoint(start Point, distMeters, bearing float64) Point {
	return FromOrb(orbgeo.PointAtBearingAndDistance(start.Orb(), bearing, distMeters))
}

// Bearing returns the initial bearing from p1 to p2 in [0, 360).
func Bearing(p1, p2 Point) float64 {
	return math.Mod(orbgeo.Bearing(p1.Orb(), p2.Orb())+360, 360)
}

// Offset returns the point east/north kilometres away from origin.
func Offset(origin Point, eastKm, northKm float64) Point {
	dist := math.Hypot(eastKm, northKm) * 1000
	if dist == 0 {
		return origin
	}
	bearing := math.Atan2(eastKm, northKm) * 180 / math.Pi
	return DestinationPoint(origin, dist, bearing)
}

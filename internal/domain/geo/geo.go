// Package geo holds the map geometry of the dashboard: circle radii derived
// from burned area, circle outlines on the sphere and map viewports.
package geo

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Unit conversions.
const (
	SquareMetersPerAcre = 4046.86
	EarthRadiusMeters   = 6371010.0
)

// DefaultCircleVertices is the outline resolution of exported circles.
const DefaultCircleVertices = 64

const minCircleVertices = 3

// RadiusMeters returns the radius of a circle whose area equals acres.
// Non-positive areas yield 0.
func RadiusMeters(acres float64) float64 {
	if acres <= 0 || math.IsNaN(acres) {
		return 0
	}
	return math.Sqrt(acres * SquareMetersPerAcre / math.Pi)
}

// LatLng is a WGS84 position in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p LatLng) s2() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lng)
}

func angle(radiusM float64) s1.Angle {
	return s1.Angle(radiusM / EarthRadiusMeters)
}

// CircleGeometry approximates a circle on the sphere. A zero radius yields a
// point; otherwise a closed counter-clockwise polygon ring with the given
// number of vertices.
func CircleGeometry(center LatLng, radiusM float64, vertices int) orb.Geometry {
	if radiusM <= 0 {
		return orb.Point{center.Lng, center.Lat}
	}
	if vertices < minCircleVertices {
		vertices = minCircleVertices
	}

	loop := s2.RegularLoop(s2.PointFromLatLng(center.s2()), angle(radiusM), vertices)
	ring := make(orb.Ring, 0, vertices+1)
	for _, v := range loop.Vertices() {
		ll := s2.LatLngFromPoint(v)
		ring = append(ring, orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// CircleBound returns the lat/lng rectangle covering a circle.
func CircleBound(center LatLng, radiusM float64) s2.Rect {
	if radiusM <= 0 {
		return s2.RectFromLatLng(center.s2())
	}
	return s2.CapFromCenterAngle(s2.PointFromLatLng(center.s2()), angle(radiusM)).RectBound()
}

// distance returns the great-circle distance between a and b in meters.
func distance(a, b LatLng) float64 {
	return a.s2().Distance(b.s2()).Radians() * EarthRadiusMeters
}

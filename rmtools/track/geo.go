package track

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadius mean Earth radius in meters used for every great-circle distance
const EarthRadius = 6371000

// LatLng anything located by a latitude and a longitude in degrees
type LatLng interface {
	Lat() float64
	Lng() float64
}

// Distance returns the great-circle (haversine) distance in meters between two locations
func Distance(a, b LatLng) float64 {
	return AngleToMeters(ToS2LatLng(a).Distance(ToS2LatLng(b)))
}

// AngleToMeters converts an angle on the sphere to a distance on the Earth surface
func AngleToMeters(a s1.Angle) float64 {
	return a.Radians() * EarthRadius
}

// ToS2LatLng converts a location to its s2 representation
func ToS2LatLng(p LatLng) s2.LatLng {
	return s2.LatLng{
		Lat: s1.Angle(p.Lat()) * s1.Degree,
		Lng: s1.Angle(p.Lng()) * s1.Degree,
	}
}

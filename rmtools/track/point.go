package track

import (
	"time"

	"github.com/tkrajina/gpxgo/gpx"
)

// Point is a single GPS sample of a track
type Point struct {
	Latitude, Longitude float64
	Elevation           gpx.NullableFloat64 // meters, null when the device did not record it
	// Speed in m/s as recorded by the device, null when the source has none.
	// Matching uses Track.Speeds which derives speed from positions.
	Speed gpx.NullableFloat64
	Time  time.Time

	// EstimatedTime is set when the source had no timestamp for this point
	// and Time holds the instant the track was parsed.
	EstimatedTime bool
}

// Lat returns the latitude in degrees
func (p Point) Lat() float64 {
	return p.Latitude
}

// Lng returns the longitude in degrees
func (p Point) Lng() float64 {
	return p.Longitude
}

// HasElevation returns true if the point carries an elevation
func (p Point) HasElevation() bool {
	return p.Elevation.NotNull()
}

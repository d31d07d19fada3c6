// Package stats derives activity summaries (distance, elevation gain,
// coordinates) from a track. Every call recomputes from scratch.
package stats

import (
	"math"
	"ridematch-tools/rmtools/convert"
	"ridematch-tools/rmtools/track"
	"time"
)

// Coordinate a latitude/longitude pair in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Summary holds the statistics of a track
type Summary struct {
	Distance      float64      `json:"distance"`      // kilometers, 2 decimals
	ElevationGain int          `json:"elevationGain"` // meters
	Coordinates   []Coordinate `json:"coordinates"`
	StartCoords   *Coordinate  `json:"startCoords,omitempty"`
	EndCoords     *Coordinate  `json:"endCoords,omitempty"`

	PointCount int           `json:"pointCount"`
	Duration   time.Duration `json:"duration"`
	Bounds     track.Bounds  `json:"-"`
	MaxSpeed   float64       `json:"-"` // km/h
}

// Calculate computes the statistics of the given track. An empty or nil track
// gives zeroed statistics.
func Calculate(t *track.Track) Summary {
	s := Summary{Coordinates: []Coordinate{}}
	if t.Len() == 0 {
		return s
	}

	pts := t.Points
	s.PointCount = len(pts)
	s.Duration = t.Duration()
	s.Bounds = t.Bounds()
	s.MaxSpeed = t.MaxSpeed()

	s.Coordinates = make([]Coordinate, len(pts))
	for i, p := range pts {
		s.Coordinates[i] = Coordinate{Lat: p.Latitude, Lng: p.Longitude}
	}
	start, end := s.Coordinates[0], s.Coordinates[len(pts)-1]
	s.StartCoords = &start
	s.EndCoords = &end

	s.Distance = math.Max(0, convert.Round(convert.ToKm(distance(pts)), 2))
	s.ElevationGain = int(math.Max(0, math.Round(elevationGain(pts))))

	return s
}

// distance returns the length of the track in meters
func distance(pts []track.Point) float64 {
	var d float64
	for i := 1; i < len(pts); i++ {
		d += track.Distance(pts[i-1], pts[i])
	}
	return d
}

// elevationGain sums positive deltas between known elevations. Points without
// elevation keep the last known one as baseline.
func elevationGain(pts []track.Point) float64 {
	var gain float64
	var last float64
	known := false

	for _, p := range pts {
		if !p.HasElevation() {
			continue
		}
		e := p.Elevation.Value()
		if known && e > last {
			gain += e - last
		}
		last = e
		known = true
	}

	return gain
}

// Package gpxparse extracts an ordered track from GPX documents.
//
// Parsing is tolerant: points without elevation are kept, points without a
// timestamp get the parse instant (flagged as estimated), points without
// coordinates are dropped. A document that cannot be read yields an empty
// track along with the error, so callers can log it and carry on.
package gpxparse

import (
	"errors"
	"fmt"
	"math"
	"ridematch-tools/rmtools/track"
	"time"

	"github.com/tkrajina/gpxgo/gpx"
)

// ErrEmptyData is returned when there is nothing to parse
var ErrEmptyData = errors.New("empty track data")

// Parser parses GPX documents into tracks
type Parser struct {
	// Now returns the instant used for points without timestamp, time.Now when nil
	Now func() time.Time
}

// Parse parses a GPX document using the current time as timestamp fallback
func Parse(data []byte) (*track.Track, error) {
	return Parser{}.Parse(data)
}

// Parse parses a GPX document. The returned track is never nil, even on error.
func (p Parser) Parse(data []byte) (*track.Track, error) {
	if len(data) == 0 {
		return track.New([]track.Point{}), ErrEmptyData
	}

	g, err := gpx.ParseBytes(data)
	if err != nil {
		return track.New([]track.Point{}), fmt.Errorf("failed to parse GPX: %w", err)
	}

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	pts := []track.Point{}
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			pts = appendPoints(pts, seg.Points, now)
		}
	}

	// planners usually export planned rides as routes
	if len(pts) == 0 {
		for _, rte := range g.Routes {
			pts = appendPoints(pts, rte.Points, now)
		}
	}

	t := track.New(pts)
	t.Name = trackName(g)

	return t, nil
}

func appendPoints(pts []track.Point, gpxPts []gpx.GPXPoint, now time.Time) []track.Point {
	for _, gp := range gpxPts {
		if !hasCoordinates(gp.Latitude, gp.Longitude) {
			continue
		}

		p := track.Point{
			Latitude:  gp.Latitude,
			Longitude: gp.Longitude,
			Elevation: gp.Elevation,
			Time:      gp.Timestamp,
		}
		if p.Time.IsZero() {
			p.Time = now
			p.EstimatedTime = true
		}

		pts = append(pts, p)
	}
	return pts
}

// hasCoordinates rejects out of range values and (0,0), which is what a
// point without lat/lon attributes decodes to.
func hasCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func trackName(g *gpx.GPX) string {
	for _, trk := range g.Tracks {
		if trk.Name != "" {
			return trk.Name
		}
	}
	for _, rte := range g.Routes {
		if rte.Name != "" {
			return rte.Name
		}
	}
	return g.Name
}

package track

import (
	"math"
	"ridematch-tools/rmtools/convert"
	"time"

	"github.com/golang/geo/s2"
)

// Track represents a gps track as an ordered serie of points, in capture order.
// Points are never reordered: timestamps are expected to be non-decreasing but
// nothing enforces it.
// A track built with New is safe for concurrent reads.
type Track struct {
	Name   string
	Points []Point

	// Start is the declared start of the track. When zero, the first point
	// timestamp is used.
	Start time.Time

	polyline *s2.Polyline
}

// New creates a track from the given points
func New(pts []Point) *Track {
	t := &Track{Points: pts}
	t.line()
	return t
}

// Len returns the number of points in the track
func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Points)
}

// StartTime returns the declared start of the track, or its first point timestamp
func (t *Track) StartTime() time.Time {
	if !t.Start.IsZero() {
		return t.Start
	}
	if len(t.Points) == 0 {
		return time.Time{}
	}
	return t.Points[0].Time
}

// Duration returns the elapsed time between the first and the last point
func (t *Track) Duration() time.Duration {
	if len(t.Points) < 2 {
		return 0
	}
	d := t.Points[len(t.Points)-1].Time.Sub(t.Points[0].Time)
	if d < 0 {
		return 0
	}
	return d
}

// HasEstimatedTimes returns true if at least one point had no timestamp in its source
func (t *Track) HasEstimatedTimes() bool {
	if t == nil {
		return false
	}
	for _, p := range t.Points {
		if p.EstimatedTime {
			return true
		}
	}
	return false
}

// Elevations returns the elevation profile, skipping points without elevation
func (t *Track) Elevations() []float64 {
	elevations := make([]float64, 0, len(t.Points))
	for _, p := range t.Points {
		if p.HasElevation() {
			elevations = append(elevations, p.Elevation.Value())
		}
	}
	return elevations
}

// Speeds returns the speed profile in km/h derived from consecutive points.
// Pairs of points with a non positive time delta are skipped.
func (t *Track) Speeds() []float64 {
	if len(t.Points) < 2 {
		return []float64{}
	}

	speeds := make([]float64, 0, len(t.Points)-1)
	for i := 1; i < len(t.Points); i++ {
		prev, curr := t.Points[i-1], t.Points[i]
		dt := curr.Time.Sub(prev.Time).Seconds()
		if dt <= 0 {
			continue
		}
		speeds = append(speeds, convert.ToKmh(Distance(prev, curr)/dt))
	}
	return speeds
}

// MaxSpeed returns the highest speed in km/h. Speeds recorded by the device
// are used when present, otherwise speeds are derived from positions.
func (t *Track) MaxSpeed() float64 {
	var fastest float64
	recorded := false
	for _, p := range t.Points {
		if p.Speed.NotNull() {
			recorded = true
			fastest = math.Max(fastest, convert.ToKmh(p.Speed.Value()))
		}
	}
	if recorded {
		return fastest
	}

	for _, s := range t.Speeds() {
		fastest = math.Max(fastest, s)
	}
	return fastest
}

// GetClosestPoint returns the closest point (along with its position on the track) on the track
func (t *Track) GetClosestPoint(pt LatLng) (Point, int) {
	l := len(t.Points)
	if l == 0 {
		return Point{}, -1
	}
	if l == 1 {
		return t.Points[0], 0
	}

	p := s2.PointFromLatLng(ToS2LatLng(pt))
	projectedPt, index := t.line().Project(p)

	if index >= l {
		return t.Points[l-1], l - 1
	}

	var closestPtIndex = index - 1
	pts := *t.line()
	if projectedPt.Distance(pts[index]) < projectedPt.Distance(pts[index-1]) {
		closestPtIndex = index
	}

	return t.Points[closestPtIndex], closestPtIndex
}

// GetShortestDistanceFromPoint returns the shortest distance in meters from the given point to the track
func (t *Track) GetShortestDistanceFromPoint(pt LatLng) float64 {
	if len(t.Points) == 0 {
		return math.Inf(1)
	}
	if len(t.Points) == 1 {
		return Distance(t.Points[0], pt)
	}

	ptLatLng := ToS2LatLng(pt)
	projectedPoint, _ := t.line().Project(s2.PointFromLatLng(ptLatLng))

	return AngleToMeters(ptLatLng.Distance(s2.LatLngFromPoint(projectedPoint)))
}

// ReduceTrackPoints returns a track holding exactly maxPoints points evenly
// picked along the track, first and last included. Tracks within the limit are
// returned as is.
func (t *Track) ReduceTrackPoints(maxPoints int) *Track {
	l := len(t.Points)
	if maxPoints <= 0 || l <= maxPoints {
		return t
	}
	if maxPoints == 1 {
		return t.derive([]Point{t.Points[0]})
	}

	// l > maxPoints so consecutive indexes are always distinct
	span, intervals := l-1, maxPoints-1
	pts := make([]Point, maxPoints)
	for i := range pts {
		pts[i] = t.Points[(i*span+intervals/2)/intervals]
	}

	return t.derive(pts)
}

// Bounds returns the boundaries of the track
func (t *Track) Bounds() Bounds {
	if len(t.Points) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinLat: t.Points[0].Latitude,
		MaxLat: t.Points[0].Latitude,
		MinLng: t.Points[0].Longitude,
		MaxLng: t.Points[0].Longitude,
	}
	for _, p := range t.Points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Latitude)
		b.MaxLat = math.Max(b.MaxLat, p.Latitude)
		b.MinLng = math.Min(b.MinLng, p.Longitude)
		b.MaxLng = math.Max(b.MaxLng, p.Longitude)
	}
	return b
}

func (t *Track) derive(pts []Point) *Track {
	d := New(pts)
	d.Name = t.Name
	d.Start = t.Start
	return d
}

// line lazily builds the polyline so tracks built as literals can be projected on
func (t *Track) line() *s2.Polyline {
	if t.polyline == nil || len(*t.polyline) != len(t.Points) {
		pPts := make([]s2.LatLng, len(t.Points))
		for i, p := range t.Points {
			pPts[i] = ToS2LatLng(p)
		}
		t.polyline = s2.PolylineFromLatLngs(pPts)
	}
	return t.polyline
}

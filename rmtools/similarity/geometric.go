package similarity

import (
	"math"
	"ridematch-tools/rmtools/track"

	"github.com/golang/geo/s2"
)

// DirectedHausdorff returns the largest distance in meters from a point of a
// to its nearest neighbour in b. It is +Inf when either side is empty.
func DirectedHausdorff(a, b []track.Point) float64 {
	return directedHausdorff(toLatLngs(a), toLatLngs(b))
}

// HausdorffDistance returns the symmetric Hausdorff distance in meters between
// two point sets: the worst of both directed distances. A single outlier in
// either set dominates the result. It is +Inf when either side is empty.
func HausdorffDistance(a, b []track.Point) float64 {
	la, lb := toLatLngs(a), toLatLngs(b)
	return math.Max(directedHausdorff(la, lb), directedHausdorff(lb, la))
}

// GeometricScore converts the Hausdorff distance between two point sets into a
// score: 100 when they overlap, decreasing linearly to 0 at maxDeviation meters.
func GeometricScore(a, b []track.Point, maxDeviation float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return ScoreFromDistance(HausdorffDistance(a, b), maxDeviation)
}

// ScoreFromDistance maps a distance in meters to a geometric score
func ScoreFromDistance(d, maxDeviation float64) float64 {
	return clampScore(MaxScore - d/maxDeviation*MaxScore)
}

// LargestExcursion returns the uploaded point the farthest from the reference
// track, measured to the reference polyline rather than to its vertices, and
// that distance in meters. The index is -1 when either track is empty.
func LargestExcursion(reference *track.Track, uploaded []track.Point) (track.Point, int, float64) {
	if reference.Len() == 0 || len(uploaded) == 0 {
		return track.Point{}, -1, 0
	}

	index, farthest := 0, -1.0
	for i, p := range uploaded {
		d := reference.GetShortestDistanceFromPoint(p)
		if d > farthest {
			index, farthest = i, d
		}
	}

	return uploaded[index], index, farthest
}

func directedHausdorff(a, b []s2.LatLng) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}

	var worst float64
	for _, pa := range a {
		nearest := math.Inf(1)
		for _, pb := range b {
			if d := track.AngleToMeters(pa.Distance(pb)); d < nearest {
				nearest = d
				// cannot get closer than the same location
				if d == 0 {
					break
				}
			}
		}
		if nearest > worst {
			worst = nearest
		}
	}

	return worst
}

func toLatLngs(pts []track.Point) []s2.LatLng {
	lls := make([]s2.LatLng, len(pts))
	for i, p := range pts {
		lls[i] = track.ToS2LatLng(p)
	}
	return lls
}

package similarity_test

import (
	"math"
	"ridematch-tools/rmtools/similarity"
	"ridematch-tools/rmtools/track"
	"testing"

	"github.com/stretchr/testify/require"
)

// line returns n points heading north from lat/lng, step degrees apart
func line(lat, lng float64, n int, step float64) []track.Point {
	pts := make([]track.Point, n)
	for i := range pts {
		pts[i] = track.Point{Latitude: lat + float64(i)*step, Longitude: lng}
	}
	return pts
}

func shift(pts []track.Point, dLat, dLng float64) []track.Point {
	out := make([]track.Point, len(pts))
	for i, p := range pts {
		p.Latitude += dLat
		p.Longitude += dLng
		out[i] = p
	}
	return out
}

func TestHausdorffDistanceIsSymmetric(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		a, b []track.Point
	}{
		"shifted":       {a: line(45, 6, 50, 0.001), b: shift(line(45, 6, 50, 0.001), 0.0003, 0.0002)},
		"subset":        {a: line(45, 6, 50, 0.001), b: line(45, 6, 10, 0.001)},
		"single_points": {a: line(45, 6, 1, 0), b: line(46, 7, 1, 0)},
		"outlier":       {a: append(line(45, 6, 20, 0.001), track.Point{Latitude: 45.01, Longitude: 6.01}), b: line(45, 6, 20, 0.001)},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(similarity.HausdorffDistance(tc.a, tc.b), similarity.HausdorffDistance(tc.b, tc.a))
		})
	}
}

func TestHausdorffDistanceTakesWorstDirection(t *testing.T) {
	require := require.New(t)

	full := line(45, 6, 101, 0.001)
	part := line(45, 6, 11, 0.001)

	// every point of part lies on full, but full goes 0.09 degree further
	require.Equal(0.0, similarity.DirectedHausdorff(part, full))
	require.InDelta(10007.5, similarity.DirectedHausdorff(full, part), 1)
	require.Equal(similarity.DirectedHausdorff(full, part), similarity.HausdorffDistance(part, full))
}

func TestHausdorffDistanceOutlierDominates(t *testing.T) {
	require := require.New(t)

	ref := line(45, 6, 100, 0.0005)
	detour := make([]track.Point, len(ref))
	copy(detour, ref)
	// a missed turn 0.001 degree east
	detour[50].Longitude += 0.001

	d := similarity.HausdorffDistance(ref, detour)
	require.InDelta(78.6, d, 0.5)
	require.InDelta(21.4, similarity.GeometricScore(ref, detour, 100), 0.5)
}

func TestHausdorffDistanceEmpty(t *testing.T) {
	require := require.New(t)

	require.True(math.IsInf(similarity.HausdorffDistance(nil, line(45, 6, 3, 0.001)), 1))
	require.True(math.IsInf(similarity.DirectedHausdorff(line(45, 6, 3, 0.001), nil), 1))
}

func TestGeometricScore(t *testing.T) {
	require := require.New(t)

	ref := line(45, 6, 50, 0.001)

	tests := map[string]struct {
		uploaded     []track.Point
		maxDeviation float64
		want         float64
	}{
		"identical":      {uploaded: ref, maxDeviation: 100, want: 100},
		"half_deviation": {uploaded: shift(ref, 0, 0.000636), maxDeviation: 100, want: 50},
		"too_far":        {uploaded: shift(ref, 0, 0.01), maxDeviation: 100, want: 0},
		"empty":          {uploaded: nil, maxDeviation: 100, want: 0},
		"zero_deviation": {uploaded: shift(ref, 0, 0.0001), maxDeviation: 0, want: 0},
		"zero_both":      {uploaded: ref, maxDeviation: 0, want: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := similarity.GeometricScore(ref, tc.uploaded, tc.maxDeviation)
			require.InDelta(tc.want, s, 0.5)
			require.False(math.IsNaN(s))
		})
	}
}

func TestGeometricScoreMonotonicity(t *testing.T) {
	require := require.New(t)

	ref := line(45, 6, 80, 0.0005)
	prev := similarity.GeometricScore(ref, ref, 100)
	require.Equal(100.0, prev)

	for i := 1; i <= 20; i++ {
		offset := float64(i) * 0.0001
		s := similarity.GeometricScore(ref, shift(ref, offset, offset), 100)
		require.LessOrEqual(s, prev)
		prev = s
	}
	require.Equal(0.0, prev)
}

func TestLargestExcursion(t *testing.T) {
	require := require.New(t)

	ref := track.New(line(45, 6, 20, 0.001))
	uploaded := line(45, 6, 20, 0.001)
	uploaded[7].Longitude += 0.002
	uploaded[12].Longitude += 0.001

	p, i, d := similarity.LargestExcursion(ref, uploaded)

	require.Equal(7, i)
	require.Equal(uploaded[7], p)
	require.InDelta(157.2, d, 1)

	_, i, d = similarity.LargestExcursion(track.New(nil), uploaded)
	require.Equal(-1, i)
	require.Equal(0.0, d)
}

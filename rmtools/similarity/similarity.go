// Package similarity holds the estimators comparing two tracks: a geometric
// one based on the symmetric Hausdorff distance and a correlation one used on
// speed and elevation profiles. Every estimator returns a score in [0, 100].
package similarity

import "math"

const (
	// MaxScore perfect similarity
	MaxScore = 100.0
	// NeutralScore is returned when there is no evidence either way
	NeutralScore = 50.0
)

// clampScore bounds a score to [0, 100]. NaN is treated as no similarity.
func clampScore(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(0, math.Min(MaxScore, s))
}

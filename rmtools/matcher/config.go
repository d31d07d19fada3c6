package matcher

import "time"

// Config is the matching policy. It is never modified by the matcher and can
// be shared between matchers.
type Config struct {
	// SimilarityThreshold minimum overall score (0-100) for a valid match
	SimilarityThreshold float64
	// TimeWindow maximum offset between the reference and the uploaded start times
	TimeWindow time.Duration
	// MinimumTrackPoints uploaded tracks with fewer points are rejected
	MinimumTrackPoints int
	// MaxDistanceDeviation distance in meters at which the geometric score reaches 0
	MaxDistanceDeviation float64
}

// Default matching policy
const (
	DefaultSimilarityThreshold  = 85
	DefaultTimeWindowMinutes    = 60
	DefaultMinimumTrackPoints   = 50
	DefaultMaxDistanceDeviation = 100
)

// DefaultConfig returns the default matching policy
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:  DefaultSimilarityThreshold,
		TimeWindow:           DefaultTimeWindowMinutes * time.Minute,
		MinimumTrackPoints:   DefaultMinimumTrackPoints,
		MaxDistanceDeviation: DefaultMaxDistanceDeviation,
	}
}

// Package matcher decides whether an uploaded track is the same ride as a
// reference route. It combines the geometric, speed and elevation estimators
// into one weighted score gated by a start time window.
//
// A Matcher holds no mutable state: it can be shared between goroutines and
// never performs I/O.
package matcher

import (
	"math"
	"ridematch-tools/rmtools/gpxparse"
	"ridematch-tools/rmtools/similarity"
	"ridematch-tools/rmtools/track"
	"time"

	"go.uber.org/zap"
)

// Weights of each component in the overall score
const (
	GeometricWeight = 0.60
	TemporalWeight  = 0.25
	ElevationWeight = 0.15
)

// Details breakdown of the overall score
type Details struct {
	Geometric float64 `json:"geometric"`
	Temporal  float64 `json:"temporal"`
	Elevation float64 `json:"elevation"`
}

// Result outcome of a route comparison
type Result struct {
	Similarity float64 `json:"similarity"`
	// MatchedPoints estimates how many uploaded points behaved as matched
	MatchedPoints   int     `json:"matchedPoints"`
	TotalPoints     int     `json:"totalPoints"`
	TimeWindowMatch bool    `json:"timeWindowMatch"`
	IsValid         bool    `json:"isValid"`
	Details         Details `json:"details"`

	// TimeOffset uploaded start minus reference start
	TimeOffset time.Duration `json:"timeOffset"`
	// HausdorffDistance in meters, nil when it was not computed
	HausdorffDistance *float64 `json:"hausdorffDistance,omitempty"`
	// EstimatedTimestamps is set when a point of either track had no
	// timestamp: speed and time window checks are then unreliable.
	EstimatedTimestamps bool `json:"estimatedTimestamps"`
}

// Matcher compares uploaded tracks against reference routes
type Matcher struct {
	cfg    Config
	log    *zap.Logger
	parser gpxparse.Parser
}

// Option configures a Matcher
type Option func(*Matcher)

// WithLogger sets the logger used for diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.log = l
		}
	}
}

// WithParser sets the parser used by CompareGPX
func WithParser(p gpxparse.Parser) Option {
	return func(m *Matcher) {
		m.parser = p
	}
}

// New creates a matcher applying the given policy. The config is not validated.
func New(cfg Config, opts ...Option) *Matcher {
	m := &Matcher{
		cfg: cfg,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the matching policy
func (m *Matcher) Config() Config {
	return m.cfg
}

// CompareRoutes scores how well the uploaded track follows the reference
// route, and whether it started within the time window around referenceStart.
// It never fails: unusable input gives a zero, invalid result.
func (m *Matcher) CompareRoutes(reference, uploaded *track.Track, referenceStart time.Time) Result {
	if reference == nil {
		reference = track.New(nil)
	}
	if uploaded == nil {
		uploaded = track.New(nil)
	}

	res := Result{
		TotalPoints:         uploaded.Len(),
		EstimatedTimestamps: reference.HasEstimatedTimes() || uploaded.HasEstimatedTimes(),
	}

	if uploaded.Len() < m.cfg.MinimumTrackPoints {
		m.log.Debug("uploaded track has too few points",
			zap.Int("points", uploaded.Len()),
			zap.Int("minimum", m.cfg.MinimumTrackPoints),
		)
		return res
	}

	res.TimeOffset = uploaded.StartTime().Sub(referenceStart)
	res.TimeWindowMatch = withinWindow(res.TimeOffset, m.cfg.TimeWindow)

	if d := similarity.HausdorffDistance(reference.Points, uploaded.Points); !math.IsInf(d, 0) && !math.IsNaN(d) {
		res.HausdorffDistance = &d
		res.Details.Geometric = similarity.ScoreFromDistance(d, m.cfg.MaxDistanceDeviation)
	}
	res.Details.Temporal = similarity.CorrelationScore(reference.Speeds(), uploaded.Speeds())
	res.Details.Elevation = similarity.CorrelationScore(reference.Elevations(), uploaded.Elevations())

	res.Similarity = overall(res.Details)
	res.MatchedPoints = int(math.Round(res.Similarity / similarity.MaxScore * float64(res.TotalPoints)))
	res.IsValid = res.Similarity >= m.cfg.SimilarityThreshold && res.TimeWindowMatch

	if res.EstimatedTimestamps {
		m.log.Warn("track has points without timestamp, speed and time window checks are unreliable")
	}
	m.log.Debug("route comparison",
		zap.Float64("similarity", res.Similarity),
		zap.Float64("geometric", res.Details.Geometric),
		zap.Float64("temporal", res.Details.Temporal),
		zap.Float64("elevation", res.Details.Elevation),
		zap.Duration("time_offset", res.TimeOffset),
		zap.Bool("time_window_match", res.TimeWindowMatch),
		zap.Bool("valid", res.IsValid),
	)

	return res
}

// CompareGPX parses both GPX documents and compares them. Unreadable documents
// are logged and treated as empty tracks.
func (m *Matcher) CompareGPX(referenceGPX, uploadedGPX []byte, referenceStart time.Time) Result {
	reference, err := m.parser.Parse(referenceGPX)
	if err != nil {
		m.log.Warn("could not parse reference track", zap.Error(err))
	}

	uploaded, err := m.parser.Parse(uploadedGPX)
	if err != nil {
		m.log.Warn("could not parse uploaded track", zap.Error(err))
	}

	return m.CompareRoutes(reference, uploaded, referenceStart)
}

func overall(d Details) float64 {
	s := GeometricWeight*d.Geometric + TemporalWeight*d.Temporal + ElevationWeight*d.Elevation
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(0, math.Min(similarity.MaxScore, s))
}

// withinWindow reports whether |offset| <= window, bounds included
func withinWindow(offset, window time.Duration) bool {
	if offset < 0 {
		offset = -offset
	}
	// -math.MinInt64 overflows back to a negative duration
	return offset >= 0 && offset <= window
}

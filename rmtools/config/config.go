package config

import (
	"errors"
	"ridematch-tools/rmtools/matcher"
	"time"

	"github.com/github/go-config"
)

// Config holds application configuration: Strava access and matching policy overrides.
type Config struct {
	HTTPPort int

	StravaClientID int    `config:"0,env=STRAVA_CLIENT_ID"`
	StravaSecretID string `config:",env=STRAVA_SECRET_ID"`

	SimilarityThreshold  float64 `config:"85,env=RIDEMATCH_SIMILARITY_THRESHOLD"`
	TimeWindowMinutes    int     `config:"60,env=RIDEMATCH_TIME_WINDOW_MINUTES"`
	MinimumTrackPoints   int     `config:"50,env=RIDEMATCH_MINIMUM_TRACK_POINTS"`
	MaxDistanceDeviation float64 `config:"100,env=RIDEMATCH_MAX_DISTANCE_DEVIATION"`

	// MaxTrackPoints caps tracks before comparison, the geometric check is quadratic
	MaxTrackPoints int `config:"3000,env=RIDEMATCH_MAX_TRACK_POINTS"`
}

// Load parses configuration from the environment and places it in a newly
// allocated Config struct.
func Load(httpPort int) (*Config, error) {
	cfg := &Config{
		HTTPPort: httpPort,
	}

	if err := config.Load(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects matching policies that cannot produce a meaningful verdict
func (c *Config) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		return errors.New("similarity threshold must be between 0 and 100")
	}
	if c.TimeWindowMinutes < 0 {
		return errors.New("time window can't be negative")
	}
	if c.MinimumTrackPoints < 0 {
		return errors.New("minimum track points can't be negative")
	}
	if c.MaxDistanceDeviation <= 0 {
		return errors.New("max distance deviation must be positive")
	}
	if c.MaxTrackPoints < 0 {
		return errors.New("max track points can't be negative")
	}
	return nil
}

// RequireStrava ensures Strava credentials are set
func (c *Config) RequireStrava() error {
	if c.StravaClientID <= 0 || c.StravaSecretID == "" {
		return errors.New("please provide your Strava's client_id and client_secret")
	}
	return nil
}

// Matching returns the matching policy
func (c *Config) Matching() matcher.Config {
	return matcher.Config{
		SimilarityThreshold:  c.SimilarityThreshold,
		TimeWindow:           time.Duration(c.TimeWindowMinutes) * time.Minute,
		MinimumTrackPoints:   c.MinimumTrackPoints,
		MaxDistanceDeviation: c.MaxDistanceDeviation,
	}
}

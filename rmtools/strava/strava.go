package strava

import (
	"context"
	"errors"
	"fmt"
	"ridematch-tools/rmtools/track"
	"strconv"
	"strings"
	"time"

	strava "github.com/strava/go.strava"
	"github.com/tkrajina/gpxgo/gpx"
	"golang.org/x/oauth2"
)

// ErrNoLocation is returned for activities recorded without GPS (indoor rides)
var ErrNoLocation = errors.New("activity has no location stream")

// Strava represents a Strava API client
type Strava struct {
	HTTPPort     int
	ClientID     int
	ClientSecret string

	CurrentToken *oauth2.Token

	oauth *oauth2.Config
}

// NewClient creates a new Strava API client
func NewClient(httpPort int, clientID int, clientSecret string) *Strava {
	strava.ClientId = clientID
	strava.ClientSecret = clientSecret

	return &Strava{
		HTTPPort:     httpPort,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		oauth:        oauthConfig(httpPort, clientID, clientSecret),
	}
}

// RetrieveAuthToken retrieves an authorization token to ensure we can query the APIs
func (s *Strava) RetrieveAuthToken(ctx context.Context) error {
	token, err := getAccessToken(ctx, s.oauth, s.HTTPPort)
	if err != nil {
		return err
	}

	s.CurrentToken = token

	return nil
}

// GetActivityLink builds strava activity url from activity ID
func (s *Strava) GetActivityLink(activityID int64) string {
	return fmt.Sprintf("https://strava.com/activities/%d", activityID)
}

// DownloadTrack downloads the track of a given Strava activity
func (s *Strava) DownloadTrack(ctx context.Context, activityID int64) (*track.Track, error) {
	token, err := s.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	client := strava.NewClient(token.AccessToken)
	aService := strava.NewActivitiesService(client)
	asService := strava.NewActivityStreamsService(client)

	activity, err := aService.Get(activityID).Do()
	if err != nil {
		return nil, err
	}

	types := []strava.StreamType{
		strava.StreamTypes.Location,
		strava.StreamTypes.Elevation,
		strava.StreamTypes.Time,
		strava.StreamTypes.Speed,
	}
	stream, err := asService.Get(activityID, types).Do()
	if err != nil {
		return nil, err
	}

	st := streams{}
	if stream.Location != nil {
		for _, ll := range stream.Location.Data {
			st.latlng = append(st.latlng, [2]float64{ll[0], ll[1]})
		}
	}
	if stream.Elevation != nil {
		st.altitude = stream.Elevation.Data
	}
	if stream.Time != nil {
		st.time = stream.Time.Data
	}
	if stream.Speed != nil {
		st.speed = stream.Speed.Data
	}

	return st.toTrack(activity.Name, activity.StartDate)
}

// streams holds the raw activity streams, indexed by sample
type streams struct {
	latlng   [][2]float64
	altitude []float64 // meters
	time     []int     // seconds since the activity start
	speed    []float64 // m/s
}

// toTrack builds a track from the streams. Samples without time are given the
// activity start time and flagged as estimated.
func (st streams) toTrack(name string, start time.Time) (*track.Track, error) {
	if len(st.latlng) == 0 {
		return nil, ErrNoLocation
	}

	pts := make([]track.Point, len(st.latlng))
	for i, ll := range st.latlng {
		p := track.Point{
			Latitude:  ll[0],
			Longitude: ll[1],
			Time:      start,
		}
		if i < len(st.altitude) {
			p.Elevation = *gpx.NewNullableFloat64(st.altitude[i])
		}
		if i < len(st.speed) {
			p.Speed = *gpx.NewNullableFloat64(st.speed[i])
		}
		if i < len(st.time) {
			p.Time = start.Add(time.Duration(st.time[i]) * time.Second)
		} else {
			p.EstimatedTime = true
		}
		pts[i] = p
	}

	t := track.New(pts)
	t.Name = name
	t.Start = start

	return t, nil
}

// ParseActivityID parse Strava activity id from url
func ParseActivityID(activityLink string) (int64, error) {
	link := strings.TrimRight(strings.TrimSpace(activityLink), "/")
	parts := strings.Split(link, "/")

	activityID, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil || activityID <= 0 {
		return -1, errors.New("wrong activity link format")
	}

	return activityID, nil
}

func (s *Strava) ensureToken(ctx context.Context) (*oauth2.Token, error) {
	if s.CurrentToken == nil {
		return nil, errors.New("no auth token found, call RetrieveAuthToken() first")
	}

	// the token source refreshes expired tokens
	token, err := s.oauth.TokenSource(ctx, s.CurrentToken).Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != s.CurrentToken.AccessToken {
		if err := saveToken(token); err != nil {
			return nil, err
		}
	}
	s.CurrentToken = token

	return token, nil
}

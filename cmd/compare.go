package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"ridematch-tools/rmtools/config"
	"ridematch-tools/rmtools/convert"
	"ridematch-tools/rmtools/matcher"
	"ridematch-tools/rmtools/similarity"
	"ridematch-tools/rmtools/strava"
	"ridematch-tools/rmtools/terminal"
	"ridematch-tools/rmtools/track"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type compareCmd struct {
	reference      string
	upload         string
	stravaActivity string
	start          string
	uploadStart    string
	maxPoints      int
	format         string
	verbose        bool
}

// excursion is the uploaded point the farthest from the reference route
type excursion struct {
	Index int `json:"index"`
	// ReferenceIndex closest reference point
	ReferenceIndex int     `json:"referenceIndex"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Distance       float64 `json:"distance"` // meters
}

type comparison struct {
	matcher.Result
	ReferenceStart   time.Time  `json:"referenceStart"`
	LargestExcursion *excursion `json:"largestExcursion,omitempty"`
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "Check whether a ride follows a planned route." }
func (*compareCmd) Usage() string {
	return `compare -reference <plan.gpx> (-upload <ride.gpx> | -activity <url>)
	Compare an uploaded ride, from a GPX file or a Strava activity, to a reference route.
	Exits with status 0 when the ride is a valid match.
  `
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.reference, "reference", "", "reference route GPX file")
	f.StringVar(&c.upload, "upload", "", "uploaded ride GPX file")
	f.StringVar(&c.stravaActivity, "activity", "", "Strava activity link, used instead of -upload")
	f.StringVar(&c.start, "start", "", "planned start time (RFC3339), defaults to the reference track start")
	f.StringVar(&c.uploadStart, "upload-start", "", "overrides the uploaded ride start time (RFC3339)")
	f.IntVar(&c.maxPoints, "max-points", 0, "maximum number of points per track, defaults to the configured value")
	f.StringVar(&c.format, "format", textF, "output format (text, json)")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := args[0].(*config.Config)

	// validate parameters
	switch c.format {
	case jsonF, textF:
	default:
		terminal.Error(nil, "Invalid format '%s'", c.format)
		return subcommands.ExitUsageError
	}
	if c.reference == "" || (c.upload == "") == (c.stravaActivity == "") {
		terminal.Error(nil, "Expected -reference and exactly one of -upload or -activity")
		return subcommands.ExitUsageError
	}
	referenceStart, err := parseTime(c.start)
	if err != nil {
		terminal.Error(err, "Invalid -start")
		return subcommands.ExitUsageError
	}
	uploadStart, err := parseTime(c.uploadStart)
	if err != nil {
		terminal.Error(err, "Invalid -upload-start")
		return subcommands.ExitUsageError
	}
	maxPoints := c.maxPoints
	if maxPoints <= 0 {
		maxPoints = cfg.MaxTrackPoints
	}

	log := zap.NewNop()
	if c.verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			terminal.Error(err, "Failed to create logger")
			return subcommands.ExitFailure
		}
	}
	defer log.Sync()

	// load both tracks
	o := terminal.NewOperation("Reading reference route '%s'", c.reference)
	reference, diag, err := readTrack(c.reference)
	if err != nil {
		o.Error(err, "Failed to read reference route")
		return subcommands.ExitFailure
	}
	o.Success("Reference route '%s' loaded (%d points)", reference.Name, reference.Len())
	if diag != nil {
		terminal.Warn("Reference route is not usable, comparing against an empty route [%s]", diag)
	}

	uploaded, err := c.uploadedTrack(ctx, cfg)
	if err != nil {
		return subcommands.ExitFailure
	}

	m := matcher.New(cfg.Matching(), matcher.WithLogger(log))
	res := compareTracks(m, reference, uploaded, referenceStart, uploadStart, maxPoints)

	if res.EstimatedTimestamps {
		terminal.Warn("Some points have no timestamp, speed and start time checks are unreliable")
	}

	if err := writeComparison(os.Stdout, c.format, res, m.Config()); err != nil {
		terminal.Error(err, "Failed to print comparison")
		return subcommands.ExitFailure
	}

	if !res.IsValid {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// uploadedTrack loads the ride from its GPX file or downloads it from Strava
func (c *compareCmd) uploadedTrack(ctx context.Context, cfg *config.Config) (*track.Track, error) {
	if c.upload != "" {
		o := terminal.NewOperation("Reading uploaded ride '%s'", c.upload)
		t, diag, err := readTrack(c.upload)
		if err != nil {
			o.Error(err, "Failed to read uploaded ride")
			return nil, err
		}
		o.Success("Uploaded ride '%s' loaded (%d points)", t.Name, t.Len())
		if diag != nil {
			terminal.Warn("Uploaded ride is not usable, it can't match [%s]", diag)
		}
		return t, nil
	}

	if err := cfg.RequireStrava(); err != nil {
		terminal.Error(err, "Strava is not configured")
		return nil, err
	}
	activityID, err := strava.ParseActivityID(c.stravaActivity)
	if err != nil {
		terminal.Error(err, "Couldn't parse Strava activity id")
		return nil, err
	}

	sc := strava.NewClient(cfg.HTTPPort, cfg.StravaClientID, cfg.StravaSecretID)

	// get auth token to query Strava
	if err := sc.RetrieveAuthToken(ctx); err != nil {
		terminal.Error(err, "Something went wrong while trying to fetch auth token")
		return nil, err
	}

	o := terminal.NewOperation("Downloading activity from Strava")
	t, err := sc.DownloadTrack(ctx, activityID)
	if err != nil {
		o.Error(err, "Failed to download activity from Strava")
		return nil, err
	}
	o.Success("Activity '%s' downloaded from %s (%d points)", t.Name, sc.GetActivityLink(activityID), t.Len())
	return t, nil
}

// compareTracks applies the start overrides and the point cap, then compares.
// A zero referenceStart defaults to the reference track start.
func compareTracks(m *matcher.Matcher, reference, uploaded *track.Track, referenceStart, uploadStart time.Time, maxPoints int) comparison {
	if referenceStart.IsZero() {
		referenceStart = reference.StartTime()
	}
	if !uploadStart.IsZero() {
		uploaded.Start = uploadStart
	}

	reference = reference.ReduceTrackPoints(maxPoints)
	uploaded = uploaded.ReduceTrackPoints(maxPoints)

	res := comparison{
		Result:         m.CompareRoutes(reference, uploaded, referenceStart),
		ReferenceStart: referenceStart,
	}
	if p, i, d := similarity.LargestExcursion(reference, uploaded.Points); i >= 0 {
		_, ri := reference.GetClosestPoint(p)
		res.LargestExcursion = &excursion{Index: i, ReferenceIndex: ri, Lat: p.Latitude, Lng: p.Longitude, Distance: d}
	}
	return res
}

func writeComparison(w io.Writer, format string, res comparison, policy matcher.Config) error {
	if format == jsonF {
		jsonStr, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(jsonStr))
		return err
	}

	verdict := "NO MATCH"
	if res.IsValid {
		verdict = "MATCH"
	}
	fmt.Fprintf(w, "%s: similarity %.1f%% (threshold %s%%)\n", verdict,
		res.Similarity, convert.Ftoan(policy.SimilarityThreshold))
	fmt.Fprintf(w, "  geometric  %6.1f\n", res.Details.Geometric)
	fmt.Fprintf(w, "  temporal   %6.1f\n", res.Details.Temporal)
	fmt.Fprintf(w, "  elevation  %6.1f\n", res.Details.Elevation)
	fmt.Fprintf(w, "  matched points %d/%d\n", res.MatchedPoints, res.TotalPoints)
	if res.TotalPoints < policy.MinimumTrackPoints {
		fmt.Fprintf(w, "  uploaded ride has fewer than %d points\n", policy.MinimumTrackPoints)
		return nil
	}

	window := "outside"
	if res.TimeWindowMatch {
		window = "within"
	}
	fmt.Fprintf(w, "  start offset %s from %s, %s the %s window\n",
		formatOffset(res.TimeOffset), res.ReferenceStart.Format(time.RFC3339), window, policy.TimeWindow)

	if res.HausdorffDistance != nil {
		fmt.Fprintf(w, "  largest deviation %.0fm\n", *res.HausdorffDistance)
	}
	if e := res.LargestExcursion; e != nil {
		fmt.Fprintf(w, "  farthest uploaded point #%d (%.5f, %.5f) is %.0fm off the route, near reference point #%d\n",
			e.Index, e.Lat, e.Lng, e.Distance, e.ReferenceIndex)
	}
	return nil
}

// formatOffset prints a signed offset rounded to the second
func formatOffset(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		return "-" + (-d).String()
	}
	return "+" + d.String()
}

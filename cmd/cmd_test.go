package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ridematch-tools/rmtools/matcher"
	"ridematch-tools/rmtools/stats"
	"ridematch-tools/rmtools/track"

	"github.com/stretchr/testify/require"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><name>Col de la Croix</name><trkseg>
    <trkpt lat="45.0000" lon="6.0000"><ele>1000</ele><time>2026-05-01T08:00:00Z</time></trkpt>
    <trkpt lat="45.0010" lon="6.0000"><ele>1010</ele><time>2026-05-01T08:00:20Z</time></trkpt>
    <trkpt lat="45.0020" lon="6.0000"><ele>1030</ele><time>2026-05-01T08:00:40Z</time></trkpt>
  </trkseg></trk>
</gpx>`

func TestReadTrack(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "ride.gpx")
	require.NoError(os.WriteFile(path, []byte(sampleGPX), 0600))

	tr, diag, err := readTrack(path)
	require.NoError(err)
	require.NoError(diag)
	require.Equal("Col de la Croix", tr.Name)
	require.Equal(3, tr.Len())

	_, _, err = readTrack(filepath.Join(t.TempDir(), "missing.gpx"))
	require.Error(err)
}

func TestReadTrackNotGPX(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "ride.gpx")
	require.NoError(os.WriteFile(path, []byte("this is not a GPX document"), 0600))

	tr, diag, err := readTrack(path)
	require.NoError(err)
	require.Error(diag)
	require.NotNil(tr)
	require.Equal(0, tr.Len())
}

func TestCompareUnreadableUploadIsNoMatch(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	refPath := filepath.Join(dir, "plan.gpx")
	upPath := filepath.Join(dir, "ride.gpx")
	require.NoError(os.WriteFile(refPath, []byte(sampleGPX), 0600))
	require.NoError(os.WriteFile(upPath, []byte(`<gpx version="1.1"><trk><trkseg><trkpt lat="1" lon="2"></trkseg></gpx>`), 0600))

	reference, _, err := readTrack(refPath)
	require.NoError(err)
	uploaded, diag, err := readTrack(upPath)
	require.NoError(err)
	require.Error(diag)

	m := matcher.New(matcher.DefaultConfig())
	res := compareTracks(m, reference, uploaded, time.Time{}, time.Time{}, 3000)

	require.False(res.IsValid)
	require.Equal(0.0, res.Similarity)
	require.Equal(0, res.TotalPoints)
	require.Nil(res.LargestExcursion)
	require.True(reference.StartTime().Equal(res.ReferenceStart))

	var buf bytes.Buffer
	require.NoError(writeComparison(&buf, textF, res, m.Config()))
	require.True(strings.HasPrefix(buf.String(), "NO MATCH: similarity 0.0%"))
	require.Contains(buf.String(), "matched points 0/0")

	buf.Reset()
	require.NoError(writeComparison(&buf, jsonF, res, m.Config()))
	var decoded map[string]interface{}
	require.NoError(json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(false, decoded["isValid"])
	require.Equal(0.0, decoded["totalPoints"])
}

func TestCompareTracksLocatesExcursion(t *testing.T) {
	require := require.New(t)

	reference, _, err := readTrackFromString(t, sampleGPX)
	require.NoError(err)

	pts := make([]track.Point, len(reference.Points))
	copy(pts, reference.Points)
	// the ride strays east around the middle of the climb
	pts[1].Longitude += 0.001
	uploaded := track.New(pts)

	cfg := matcher.DefaultConfig()
	cfg.MinimumTrackPoints = 1
	res := compareTracks(matcher.New(cfg), reference, uploaded, time.Time{}, time.Time{}, 0)

	require.NotNil(res.LargestExcursion)
	require.Equal(1, res.LargestExcursion.Index)
	require.Equal(1, res.LargestExcursion.ReferenceIndex)
	require.InDelta(78.6, res.LargestExcursion.Distance, 0.5)
	require.True(res.TimeWindowMatch)
}

func TestStatsOfUnreadableTrack(t *testing.T) {
	require := require.New(t)

	tr, diag, err := readTrackFromString(t, "not xml at all")
	require.NoError(err)
	require.Error(diag)

	var buf bytes.Buffer
	require.NoError(writeSummary(&buf, jsonF, tr.Name, stats.Calculate(tr)))
	require.JSONEq(`{"distance":0,"elevationGain":0,"coordinates":[],"pointCount":0,"duration":0}`, buf.String())
}

func readTrackFromString(t *testing.T, content string) (*track.Track, error, error) {
	path := filepath.Join(t.TempDir(), "track.gpx")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return readTrack(path)
}

func TestParseTime(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		"empty":     {value: "", want: time.Time{}},
		"utc":       {value: "2026-05-01T08:00:00Z", want: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)},
		"offset":    {value: "2026-05-01T10:00:00+02:00", want: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)},
		"date":      {value: "2026-05-01", wantErr: true},
		"gibberish": {value: "tomorrow", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseTime(tc.value)
			if tc.wantErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			require.True(tc.want.Equal(got))
		})
	}
}

func TestFormatOffset(t *testing.T) {
	require := require.New(t)

	require.Equal("+30m0s", formatOffset(30*time.Minute))
	require.Equal("-1h30m0s", formatOffset(-90*time.Minute))
	require.Equal("+0s", formatOffset(200*time.Millisecond))
}

func TestWriteSummary(t *testing.T) {
	require := require.New(t)

	s := stats.Summary{
		Distance:      3.34,
		ElevationGain: 126,
		Coordinates:   []stats.Coordinate{{Lat: 45, Lng: 6}, {Lat: 45.5, Lng: 6.25}},
		StartCoords:   &stats.Coordinate{Lat: 45, Lng: 6},
		EndCoords:     &stats.Coordinate{Lat: 45.5, Lng: 6.25},
		PointCount:    2,
		Duration:      95 * time.Minute,
	}

	var buf bytes.Buffer
	require.NoError(writeSummary(&buf, csvF, "ride", s))
	require.Equal("index,lat,lng\n0,45,6\n1,45.5,6.25\n", buf.String())

	buf.Reset()
	require.NoError(writeSummary(&buf, jsonF, "ride", s))
	var decoded map[string]interface{}
	require.NoError(json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(3.34, decoded["distance"])
	require.Equal(126.0, decoded["elevationGain"])

	buf.Reset()
	require.NoError(writeSummary(&buf, textF, "ride", s))
	require.Contains(buf.String(), "3.34 km")
	require.Contains(buf.String(), "126 m")
	require.Contains(buf.String(), "1h35")
}

func TestWriteComparison(t *testing.T) {
	require := require.New(t)

	d := 12.5
	res := comparison{
		Result: matcher.Result{
			Similarity:        91.26,
			MatchedPoints:     91,
			TotalPoints:       100,
			TimeWindowMatch:   true,
			IsValid:           true,
			Details:           matcher.Details{Geometric: 87.5, Temporal: 100, Elevation: 95},
			TimeOffset:        30 * time.Minute,
			HausdorffDistance: &d,
		},
		ReferenceStart:   time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		LargestExcursion: &excursion{Index: 42, ReferenceIndex: 40, Lat: 45.1, Lng: 6.2, Distance: 12.5},
	}

	var buf bytes.Buffer
	require.NoError(writeComparison(&buf, textF, res, matcher.DefaultConfig()))
	out := buf.String()
	require.True(strings.HasPrefix(out, "MATCH: similarity 91.3% (threshold 85%)"))
	require.Contains(out, "matched points 91/100")
	require.Contains(out, "+30m0s")
	require.Contains(out, "within the 1h0m0s window")
	require.Contains(out, "#42")
	require.Contains(out, "near reference point #40")

	buf.Reset()
	require.NoError(writeComparison(&buf, jsonF, res, matcher.DefaultConfig()))
	var decoded map[string]interface{}
	require.NoError(json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(true, decoded["isValid"])
	require.Equal(91.26, decoded["similarity"])
	require.Equal(42.0, decoded["largestExcursion"].(map[string]interface{})["index"])
}

func TestWriteComparisonTooFewPoints(t *testing.T) {
	require := require.New(t)

	res := comparison{Result: matcher.Result{TotalPoints: 10}}

	var buf bytes.Buffer
	require.NoError(writeComparison(&buf, textF, res, matcher.DefaultConfig()))
	require.True(strings.HasPrefix(buf.String(), "NO MATCH"))
	require.Contains(buf.String(), "fewer than 50 points")
	require.NotContains(buf.String(), "window")
}

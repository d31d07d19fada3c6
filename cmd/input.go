package main

import (
	"fmt"
	"os"
	"time"

	"ridematch-tools/rmtools/gpxparse"
	"ridematch-tools/rmtools/track"
)

const (
	jsonF = "json"
	textF = "text"
	csvF  = "csv"
)

// readTrack loads and parses a GPX file. Only a file that can't be read is an
// error: unparsable content gives an empty track and a diagnostic.
func readTrack(path string) (t *track.Track, diag error, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read '%s': %w", path, err)
	}
	t, diag = gpxparse.Parse(data)
	return t, diag, nil
}

// parseTime parses an RFC3339 flag value, the zero time when empty
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	tm, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time '%s', expected RFC3339: %w", value, err)
	}
	return tm, nil
}

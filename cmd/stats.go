package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"ridematch-tools/rmtools/convert"
	"ridematch-tools/rmtools/stats"
	"ridematch-tools/rmtools/terminal"

	"github.com/google/subcommands"
)

type statsCmd struct {
	format     string
	outputFile string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "Print statistics of a GPX track." }
func (*statsCmd) Usage() string {
	return `stats [-format text|json|csv] [-output file] <file.gpx>
	Print the statistics of a GPX track.
  `
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", textF, "format to display statistics (json, text, csv)")
	f.StringVar(&c.outputFile, "output", "", "output file")
}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// validate parameters
	switch c.format {
	case jsonF, textF, csvF:
	default:
		terminal.Error(nil, "Invalid format '%s'", c.format)
		return subcommands.ExitUsageError
	}
	if f.NArg() != 1 {
		terminal.Error(nil, "Expected exactly one GPX file")
		return subcommands.ExitUsageError
	}

	t, diag, err := readTrack(f.Arg(0))
	if err != nil {
		terminal.Error(err, "Failed to read track")
		return subcommands.ExitFailure
	}
	if diag != nil {
		terminal.Warn("Track is not usable, statistics are empty [%s]", diag)
	}
	summary := stats.Calculate(t)

	// get a file writer if needed
	var w io.Writer = os.Stdout
	var op *terminal.Operation
	if c.outputFile != "" {
		file, err := os.Create(c.outputFile)
		if err != nil {
			terminal.Error(err, "Could not open file '%s'", c.outputFile)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file

		op = terminal.NewOperation("Exporting statistics to '%s' in %s format", c.outputFile, c.format)
	}

	if err := writeSummary(w, c.format, t.Name, summary); err != nil {
		if op != nil {
			op.Error(err, "Failed to export statistics")
		} else {
			terminal.Error(err, "Failed to print statistics")
		}
		return subcommands.ExitFailure
	}

	if op != nil {
		op.Success("Statistics exported to %s", c.outputFile)
	}
	return subcommands.ExitSuccess
}

func writeSummary(w io.Writer, format string, name string, s stats.Summary) error {
	switch format {
	case jsonF:
		jsonStr, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(jsonStr))
		return err
	case csvF:
		csvW := csv.NewWriter(w)
		csvW.Write([]string{"index", "lat", "lng"})
		for i, p := range s.Coordinates {
			csvW.Write([]string{
				strconv.Itoa(i),
				strconv.FormatFloat(p.Lat, 'f', -1, 64),
				strconv.FormatFloat(p.Lng, 'f', -1, 64),
			})
		}
		csvW.Flush()
		return csvW.Error()
	}

	days, h, m := convert.ToDaysHoursMin(s.Duration)
	duration := fmt.Sprintf("%dh%02d", h, m)
	if days > 0 {
		duration = fmt.Sprintf("%dd %s", days, duration)
	}
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  distance        %.2f km\n", s.Distance)
	fmt.Fprintf(w, "  elevation gain  %d m\n", s.ElevationGain)
	fmt.Fprintf(w, "  duration        %s\n", duration)
	fmt.Fprintf(w, "  max speed       %.1f km/h\n", s.MaxSpeed)
	fmt.Fprintf(w, "  points          %d\n", s.PointCount)
	if s.StartCoords != nil {
		fmt.Fprintf(w, "  start           %.5f, %.5f\n", s.StartCoords.Lat, s.StartCoords.Lng)
		fmt.Fprintf(w, "  end             %.5f, %.5f\n", s.EndCoords.Lat, s.EndCoords.Lng)
		b := s.Bounds
		fmt.Fprintf(w, "  bounds          %.5f, %.5f / %.5f, %.5f\n", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)
	}
	_, err := fmt.Fprintln(w)
	return err
}

package convert_test

import (
	"ridematch-tools/rmtools/convert"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToKmh(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		input float64
		want  float64
	}{
		"simple": {input: 10, want: 36},
		"zero":   {input: 0, want: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(tc.want, convert.ToKmh(tc.input))
		})
	}
}

func TestToKm(t *testing.T) {
	require := require.New(t)

	require.Equal(12.5, convert.ToKm(12500))
	require.Equal(0.0, convert.ToKm(0))
}

func TestRound(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		input    float64
		decimals int
		want     float64
	}{
		"two_decimals_down": {input: 10.00449, decimals: 2, want: 10.0},
		"two_decimals_up":   {input: 12.3456, decimals: 2, want: 12.35},
		"integer":           {input: 199.5, decimals: 0, want: 200},
		"negative":          {input: -0.4, decimals: 0, want: 0},
		"zero":              {input: 0, decimals: 2, want: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.InDelta(tc.want, convert.Round(tc.input, tc.decimals), 1e-9)
		})
	}
}

func TestToDaysHoursMin(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		input time.Duration
		want  []int
	}{
		"days":    {input: 2 * 24 * time.Hour, want: []int{2, 0, 0}},
		"hours":   {input: 18 * time.Hour, want: []int{0, 18, 0}},
		"minutes": {input: 24 * time.Minute, want: []int{0, 0, 24}},
		"mix":     {input: (1440 + 600 + 43) * time.Minute, want: []int{1, 10, 43}},
		"zero":    {input: 0, want: []int{0, 0, 0}},
		"invalid": {input: -5 * time.Minute, want: []int{0, 0, 0}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d, h, m := convert.ToDaysHoursMin(tc.input)
			require.Equal(tc.want[0], d)
			require.Equal(tc.want[1], h)
			require.Equal(tc.want[2], m)
		})
	}
}

func TestToHoursMin(t *testing.T) {
	require := require.New(t)

	h, m := convert.ToHoursMin(26*time.Hour + 5*time.Minute + 59*time.Second)
	require.Equal(26, h)
	require.Equal(5, m)
}

func TestFtoan(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		input float64
		want  string
	}{
		"floor":       {input: 2524.13242435, want: "2524"},
		"ceil":        {input: 2524.72342341, want: "2525"},
		"almost_zero": {input: 0.11, want: "0"},
		"zero":        {input: 0.0, want: "0"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(tc.want, convert.Ftoan(tc.input))
		})
	}
}

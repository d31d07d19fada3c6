package similarity

import "math"

// CorrelationScore compares the shape of two numeric profiles (speeds,
// elevations) of possibly different lengths. Both are resampled to the
// shortest length and their Pearson correlation r is mapped to (r+1)*50.
// An empty profile carries no evidence and scores NeutralScore.
func CorrelationScore(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return NeutralScore
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	r := Pearson(Resample(a, n), Resample(b, n))
	return clampScore((r + 1) * NeutralScore)
}

// Resample linearly interpolates values over their index to n samples taken
// at positions i*(len-1)/(n-1).
func Resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) == 0 {
		return []float64{}
	}

	out := make([]float64, n)
	if len(values) == n {
		copy(out, values)
		return out
	}
	if n == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}

	last := len(values) - 1
	step := float64(last) / float64(n-1)
	for i := range out {
		pos := float64(i) * step
		lo := int(math.Floor(pos))
		if lo >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(lo)
		out[i] = values[lo] + (values[lo+1]-values[lo])*frac
	}

	return out
}

// Pearson returns the correlation coefficient of two equal-length sequences.
// Sequences without variance, or of different lengths, correlate at 0.
func Pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}

	var meanA, meanB float64
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	den := math.Sqrt(varA * varB)
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0
	}

	return math.Max(-1, math.Min(1, cov/den))
}

package numeric

import (
	"errors"
	"math"

	"github.com/phuslu/log"
	"golang.org/x/exp/slices"
)

// ErrInsufficientData reports a series with fewer than two usable points.
// There is no meaningful fallback for a single observation, so this is
// surfaced to the caller rather than defaulted.
var ErrInsufficientData = errors.New("fewer than two positive observations")

// Estimate is the result of fitting a growth trend to a series.
type Estimate struct {
	GrowthRate   float64 `json:"growth_rate"`    // fractional, e.g. 0.08 for 8%
	AverageValue float64 `json:"average_value"`  // mean of the fitted series
}

// Forecast fits an exponential trend to an ordered series of observations
// (time index = position) and returns the period-over-period growth rate and
// the average fitted value. Non-positive observations are excluded from the
// fit. When the fit is numerically degenerate it falls back to a compound
// growth estimate over the raw endpoints.
func Forecast(series []float64) (Estimate, error) {
	var xs []float64
	var vals []float64
	for i, v := range series {
		if v > 0 {
			xs = append(xs, float64(i))
			vals = append(vals, v)
		}
	}
	if len(vals) < 2 {
		return Estimate{}, ErrInsufficientData
	}

	// Rescale so the smallest value is at most 1; keeps the exponential
	// transform well away from overflow for large currency figures.
	scale := 1.0
	for slices.Min(vals)/scale > 1 {
		scale *= 10
	}

	ys := make([]float64, len(vals))
	for i, v := range vals {
		ys[i] = math.Log(v / scale)
	}

	slope, intercept, ok := leastSquares(xs, ys)
	if !ok {
		log.Warn().Int("points", len(vals)).Msg("degenerate trend fit, using compound growth estimate")
		return compoundEstimate(series), nil
	}

	var sum float64
	for _, x := range xs {
		sum += math.Exp(intercept + slope*x)
	}

	return Estimate{
		GrowthRate:   math.Exp(slope) - 1,
		AverageValue: sum / float64(len(xs)) * scale,
	}, nil
}

// leastSquares fits y = intercept + slope*x. ok is false when the fit is
// numerically degenerate.
func leastSquares(xs, ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}

	det := n*sxx - sx*sx
	if det == 0 {
		return 0, 0, false
	}
	slope = (n*sxy - sx*sy) / det
	intercept = (sy - slope*sx) / n

	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return 0, 0, false
	}
	return slope, intercept, true
}

// compoundEstimate derives growth from the raw endpoints and averages the raw
// observations. Non-positive endpoints are treated as zero, yielding a zero
// growth rate.
func compoundEstimate(series []float64) Estimate {
	first, last := series[0], series[len(series)-1]

	growth := 0.0
	if first > 0 && last > 0 && len(series) > 1 {
		growth = math.Pow(last/first, 1/float64(len(series)-1)) - 1
	}

	var sum float64
	for _, v := range series {
		sum += v
	}

	return Estimate{
		GrowthRate:   growth,
		AverageValue: sum / float64(len(series)),
	}
}

// Package indicator implements the Tillson T3 smoothing pipeline used for
// trend detection. Everything here is a pure transform over float slices:
// no I/O, no state, output always index-aligned with input.
package indicator

// Color classifies one smoothed bar against its predecessor.
type Color int8

const (
	ColorNeutral Color = iota
	ColorRising
	ColorFalling
)

// WeightedClose derives the T3 source series (high + low + 2*close) / 4.
// The three input slices must be equal length.
func WeightedClose(high, low, close []float64) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		out[i] = (high[i] + low[i] + 2*close[i]) / 4
	}
	return out
}

// ema applies one exponential moving average pass with multiplier
// 2/(length+1). The first output is seeded with the first input, so there is
// no warm-up period; early values of short series are inaccurate and callers
// gate on sample count upstream.
func ema(src []float64, length int) []float64 {
	if len(src) == 0 {
		return nil
	}
	k := 2.0 / float64(length+1)
	out := make([]float64, len(src))
	out[0] = src[0]
	for i := 1; i < len(src); i++ {
		out[i] = out[i-1] + k*(src[i]-out[i-1])
	}
	return out
}

// T3 computes the Tillson T3 moving average: six chained EMA passes combined
// with polynomial coefficients of the decay factor a (0 < a < 1). The output
// has the same length as src; an empty src yields an empty result.
func T3(src []float64, length int, a float64) []float64 {
	if len(src) == 0 {
		return nil
	}
	e1 := ema(src, length)
	e2 := ema(e1, length)
	e3 := ema(e2, length)
	e4 := ema(e3, length)
	e5 := ema(e4, length)
	e6 := ema(e5, length)

	c1 := -(a * a * a)
	c2 := 3*a*a + 3*a*a*a
	c3 := -6*a*a - 3*a - 3*a*a*a
	c4 := 1 + 3*a + a*a*a + 3*a*a

	out := make([]float64, len(src))
	for i := range src {
		out[i] = c1*e6[i] + c2*e5[i] + c3*e4[i] + c4*e3[i]
	}
	return out
}

// Colors classifies each point of a smoothed series against its predecessor.
// Index 0 has no predecessor and is always neutral; ties classify as falling.
func Colors(series []float64) []Color {
	out := make([]Color, len(series))
	for i := 1; i < len(series); i++ {
		if series[i] > series[i-1] {
			out[i] = ColorRising
		} else {
			out[i] = ColorFalling
		}
	}
	return out
}

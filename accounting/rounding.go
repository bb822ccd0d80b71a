package accounting

import "math"

// Round rounds half-to-even ("bankers rounding") to the nearest integer.
// Used wherever aggregated simulation output must avoid systematic
// rounding bias across many agents and ticks.
func Round(value float64) int {
	s := int(math.Trunc(value))
	t := math.Abs(value - float64(s))

	if t < 0.5 || (t == 0.5 && s%2 == 0) {
		return s
	}
	if value < 0 {
		return s - 1
	}
	return s + 1
}

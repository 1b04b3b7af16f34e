package goals

import "math"

// Cumulative returns the running target through day index (0-based) when a
// period total is spread over length days. Every prefix is rounded
// independently; the final day is pinned to the exact total so the boundary
// never drifts by rounding.
func Cumulative(total float64, index, length int) float64 {
	if !isFinite(total) || total <= 0 || length <= 0 || index < 0 {
		return 0
	}
	if index >= length-1 {
		return total
	}
	return math.Round(total * float64(index+1) / float64(length))
}

// Distribute builds the full cumulative-by-day sequence for a total.
func Distribute(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = Cumulative(total, i, n)
	}
	return out
}

// ToDaily converts a cumulative sequence into per-day deltas; the first
// delta equals the first cumulative value. Prefix-summing the result
// reproduces the input exactly.
func ToDaily(cumulative []float64) []float64 {
	out := make([]float64, len(cumulative))
	for i, v := range cumulative {
		if i == 0 {
			out[i] = v
			continue
		}
		out[i] = v - cumulative[i-1]
	}
	return out
}

// DistributeActive spreads a total over the active subset of a date axis.
// Inactive dates get no entry; they stay on the axis for display but do not
// consume any of the total.
func DistributeActive(dates []string, active func(string) bool, total float64) map[string]float64 {
	if len(dates) == 0 {
		return map[string]float64{}
	}
	var activeDates []string
	for _, d := range dates {
		if active == nil || active(d) {
			activeDates = append(activeDates, d)
		}
	}
	out := make(map[string]float64, len(activeDates))
	for i, d := range activeDates {
		out[d] = Cumulative(total, i, len(activeDates))
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

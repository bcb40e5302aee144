package edges

import (
	"math"
	"sort"
)

// Cluster groups nearby values and returns one representative per group.
// Values are sorted, then chained: a value joins the current group while its
// gap to the previous value is within tolerance. The representative of a
// group is its lowest value, which makes the result deterministic when a
// value sits exactly tolerance away from both neighbours.
//
// Representatives are always actual input values, and any two distinct
// representatives are farther apart than tolerance.
func Cluster(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	reps := []float64{sorted[0]}
	prev := sorted[0]

	for _, v := range sorted[1:] {
		if v-prev > tolerance {
			reps = append(reps, v)
		}
		prev = v
	}

	return reps
}

// ApproxEqual reports whether two values differ by no more than tol.
func ApproxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

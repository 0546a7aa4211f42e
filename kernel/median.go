// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"math"
	"sort"
)

// MedianHeuristic returns the median pairwise Euclidean distance of the
// point set: the standard data-derived default length scale for kernel
// score estimators. Distances are taken over strict pairs i < j; an even
// pair count takes the midpoint of the two central values.
//
// Errors:
//   - ErrEmptySet: fewer than two points (no pair to measure).
//   - ErrDimensionMismatch: inconsistent point dimensions.
//
// Complexity: O(n²·d) distance work plus an O(n² log n) sort.
func MedianHeuristic(pts []Point) (float64, error) {
	d, err := CheckSet(pts)
	if err != nil {
		return 0, err
	}
	n := len(pts)
	if n < 2 {
		return 0, fmt.Errorf("%w: median heuristic needs at least two points", ErrEmptySet)
	}
	ds := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var s float64
			for t := 0; t < d; t++ {
				u := pts[i][t] - pts[j][t]
				s += u * u
			}
			ds = append(ds, math.Sqrt(s))
		}
	}
	sort.Float64s(ds)
	m := len(ds)
	if m%2 == 1 {
		return ds[m/2], nil
	}
	return 0.5 * (ds[m/2-1] + ds[m/2]), nil
}

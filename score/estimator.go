// SPDX-License-Identifier: MIT

package score

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/scorekit/scorekit/kernel"
)

// Estimator is the contract shared by the score estimators: an
// out-of-sample estimate at arbitrary query points, and the in-sample
// estimate over the training set itself. Both return one ∇x log p(x)
// row per input row. Implementations are immutable after construction
// and safe for concurrent use; every call is a pure function of its
// arguments.
//
// The in-sample estimate evaluates each training point through its own
// row of the solve (it is not leave-one-out).
type Estimator interface {
	// EstimateGradientsSX estimates the score at each query given the
	// samples: result is len(queries)×d.
	EstimateGradientsSX(queries, samples []kernel.Point) ([]kernel.Point, error)

	// EstimateGradientsS estimates the score at the samples themselves:
	// result is len(x)×d.
	EstimateGradientsS(x []kernel.Point) ([]kernel.Point, error)
}

// checkPair validates both point sets and their shared dimension.
func checkPair(queries, samples []kernel.Point) (int, error) {
	dq, err := kernel.CheckSet(queries)
	if err != nil {
		return 0, fmt.Errorf("queries: %w", err)
	}
	ds, err := kernel.CheckSet(samples)
	if err != nil {
		return 0, fmt.Errorf("samples: %w", err)
	}
	if dq != ds {
		return 0, fmt.Errorf("%w: queries are %d-dimensional, samples are %d-dimensional",
			kernel.ErrDimensionMismatch, dq, ds)
	}
	return ds, nil
}

// resolveScales canonicalizes the configured length scales for dimension
// d, falling back to the median heuristic over the samples when none
// were configured.
func resolveScales(raw []float64, samples []kernel.Point, d int) ([]float64, error) {
	if raw == nil {
		sigma, err := kernel.MedianHeuristic(samples)
		if err != nil {
			return nil, err
		}
		return kernel.Scales([]float64{sigma}, d)
	}
	return kernel.Scales(raw, d)
}

// denseRows copies an n×d matrix into one point per row.
func denseRows(m *mat.Dense) []kernel.Point {
	n, _ := m.Dims()
	out := make([]kernel.Point, n)
	for i := 0; i < n; i++ {
		out[i] = append(kernel.Point{}, m.RawRowView(i)...)
	}
	return out
}

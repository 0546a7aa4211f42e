// SPDX-License-Identifier: MIT

package score

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/scorekit/scorekit/kernel"
)

// KDE is the Gaussian kernel density baseline: a normalized mixture
// with one component per sample. The score estimate differentiates the
// log of that mixture directly, so unlike the other estimators there is
// no solve and no in-sample variant. Bandwidths default to Scott's rule
// per dimension, n^(−1/(d+4))·σ_t.
type KDE struct {
	scales []float64 // nil: Scott's rule at estimation time
}

// NewKDE builds the estimator. Supported options: WithBandwidth,
// WithLengthscales.
//
// Errors: ErrInvalidOption, kernel.ErrBadBandwidth.
func NewKDE(opts ...Option) (*KDE, error) {
	o, err := gatherOptions(optScales, opts...)
	if err != nil {
		return nil, err
	}
	if o.scales != nil {
		if _, err := kernel.Scales(o.scales, len(o.scales)); err != nil {
			return nil, err
		}
	}
	return &KDE{scales: o.scales}, nil
}

// bandwidths resolves the per-dimension bandwidths for one sample set.
func (k *KDE) bandwidths(samples []kernel.Point, d int) ([]float64, error) {
	if k.scales != nil {
		return kernel.Scales(k.scales, d)
	}
	n := len(samples)
	factor := math.Pow(float64(n), -1.0/float64(d+4))
	col := make([]float64, n)
	hs := make([]float64, d)
	for t := 0; t < d; t++ {
		for i, p := range samples {
			col[i] = p[t]
		}
		sd := stat.StdDev(col, nil)
		if !(sd > 0) || math.IsInf(sd, 0) {
			return nil, fmt.Errorf("%w: degenerate sample spread in dimension %d",
				kernel.ErrBadBandwidth, t)
		}
		hs[t] = factor * sd
	}
	return hs, nil
}

// exponents fills e[i] with the Gaussian exponent of query q against
// sample i: −½·Σ_t ((q_t−x_it)/h_t)².
func exponents(e []float64, q kernel.Point, samples []kernel.Point, hs []float64) {
	for i, x := range samples {
		var v float64
		for t, h := range hs {
			u := (q[t] - x[t]) / h
			v -= 0.5 * u * u
		}
		e[i] = v
	}
}

// DensityEstimatesLogProb returns the log of the normalized mixture
// density at each query: one value per query row. Normalization uses
// the exact Gaussian constant, so exp of the result integrates to one
// over the support.
func (k *KDE) DensityEstimatesLogProb(queries, samples []kernel.Point) ([]float64, error) {
	d, err := checkPair(queries, samples)
	if err != nil {
		return nil, err
	}
	hs, err := k.bandwidths(samples, d)
	if err != nil {
		return nil, err
	}

	logNorm := math.Log(float64(len(samples)))
	for _, h := range hs {
		logNorm += math.Log(h * math.Sqrt(2*math.Pi))
	}

	out := make([]float64, len(queries))
	expo := make([]float64, len(samples))
	for qi, q := range queries {
		exponents(expo, q, samples, hs)
		out[qi] = floats.LogSumExp(expo) - logNorm
	}
	return out, nil
}

// EstimateGradientsSX differentiates the log-density at each query: a
// softmax-weighted average of the per-component Gaussian gradients.
func (k *KDE) EstimateGradientsSX(queries, samples []kernel.Point) ([]kernel.Point, error) {
	d, err := checkPair(queries, samples)
	if err != nil {
		return nil, err
	}
	hs, err := k.bandwidths(samples, d)
	if err != nil {
		return nil, err
	}
	inv2 := make([]float64, d)
	for t, h := range hs {
		inv2[t] = 1 / (h * h)
	}

	out := make([]kernel.Point, len(queries))
	expo := make([]float64, len(samples))
	for qi, q := range queries {
		exponents(expo, q, samples, hs)
		lse := floats.LogSumExp(expo)
		row := make(kernel.Point, d)
		for i, x := range samples {
			w := math.Exp(expo[i] - lse)
			for t := 0; t < d; t++ {
				row[t] += w * (x[t] - q[t]) * inv2[t]
			}
		}
		out[qi] = row
	}
	return out, nil
}

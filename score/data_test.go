// SPDX-License-Identifier: MIT

package score_test

import (
	"math"

	"github.com/scorekit/scorekit/kernel"
)

// testRand is a fixed-seed generator (64-bit LCG plus Box-Muller) so the
// accuracy tests see the same draws on every platform and toolchain.
type testRand struct {
	state    uint64
	spare    float64
	hasSpare bool
}

func newTestRand(seed uint64) *testRand { return &testRand{state: seed} }

func (r *testRand) uniform() float64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return (float64(r.state>>11) + 0.5) / (1 << 53)
}

func (r *testRand) normal() float64 {
	if r.hasSpare {
		r.hasSpare = false
		return r.spare
	}
	u1, u2 := r.uniform(), r.uniform()
	rad := math.Sqrt(-2 * math.Log(u1))
	r.spare = rad * math.Sin(2*math.Pi*u2)
	r.hasSpare = true
	return rad * math.Cos(2*math.Pi*u2)
}

// points draws n Gaussian points with per-dimension mean and standard
// deviation.
func (r *testRand) points(n int, loc, scale []float64) []kernel.Point {
	out := make([]kernel.Point, n)
	for i := range out {
		p := make(kernel.Point, len(loc))
		for t := range p {
			p[t] = loc[t] + scale[t]*r.normal()
		}
		out[i] = p
	}
	return out
}

// gaussianScores returns the exact score −(p−loc)/scale² of the
// diagonal Gaussian at each point.
func gaussianScores(pts []kernel.Point, loc, scale []float64) []kernel.Point {
	out := make([]kernel.Point, len(pts))
	for i, p := range pts {
		row := make(kernel.Point, len(loc))
		for t := range row {
			row[t] = -(p[t] - loc[t]) / (scale[t] * scale[t])
		}
		out[i] = row
	}
	return out
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	return out
}

// grid2 lays a n×n grid over [lo,hi]², first coordinate fastest.
func grid2(lo, hi float64, n int) []kernel.Point {
	axis := linspace(lo, hi, n)
	pts := make([]kernel.Point, 0, n*n)
	for _, x2 := range axis {
		for _, x1 := range axis {
			pts = append(pts, kernel.Point{x1, x2})
		}
	}
	return pts
}

// cosDistance is 1 − cos∠(a,b); zero vectors count as aligned.
func cosDistance(a, b kernel.Point) float64 {
	var dot, na, nb float64
	for t := range a {
		dot += a[t] * b[t]
		na += a[t] * a[t]
		nb += b[t] * b[t]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// meanCosDistance averages the per-row cosine distance of two gradient
// fields: the accuracy metric of every estimator test.
func meanCosDistance(want, got []kernel.Point) float64 {
	var sum float64
	for i := range want {
		sum += cosDistance(want[i], got[i])
	}
	return sum / float64(len(want))
}

// allFinite reports whether every coordinate is a finite number.
func allFinite(pts []kernel.Point) bool {
	for _, p := range pts {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

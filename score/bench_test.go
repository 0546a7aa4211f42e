// SPDX-License-Identifier: MIT

package score_test

import (
	"testing"

	"github.com/scorekit/scorekit/kernel"
	"github.com/scorekit/scorekit/score"
)

// benchFixture draws n samples and n/4 queries of dimension d from one
// deterministic stream.
func benchFixture(n, d int) (xs, xq []kernel.Point) {
	loc := make([]float64, d)
	scale := make([]float64, d)
	for t := range scale {
		scale[t] = 1
	}
	rng := newTestRand(99)
	return rng.points(n, loc, scale), rng.points(n/4, loc, scale)
}

func benchmarkEstimator(b *testing.B, est score.Estimator, n, d int) {
	b.Helper()
	xs, xq := benchFixture(n, d)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := est.EstimateGradientsSX(xq, xs); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTikhonov_N100D2 measures the closed-form solve on the
// diagonal backing.
func BenchmarkTikhonov_N100D2(b *testing.B) {
	est, err := score.NewTikhonov(score.WithBandwidth(2))
	if err != nil {
		b.Fatal(err)
	}
	benchmarkEstimator(b, est, 100, 2)
}

// BenchmarkTikhonovCurlFree_N50D3 measures the block-system solve,
// which grows with (n·d)².
func BenchmarkTikhonovCurlFree_N50D3(b *testing.B) {
	est, err := score.NewTikhonov(score.WithBandwidth(2), score.WithCurlFree())
	if err != nil {
		b.Fatal(err)
	}
	benchmarkEstimator(b, est, 50, 3)
}

// BenchmarkNuMethod_N100D2 measures the accelerated iteration at the
// default budget.
func BenchmarkNuMethod_N100D2(b *testing.B) {
	est, err := score.NewNuMethod(score.WithBandwidth(2))
	if err != nil {
		b.Fatal(err)
	}
	benchmarkEstimator(b, est, 100, 2)
}

// BenchmarkSSGE_N100D2 measures the eigendecomposition path.
func BenchmarkSSGE_N100D2(b *testing.B) {
	est, err := score.NewSSGE(score.WithEigenThreshold(0.98), score.WithBandwidth(2))
	if err != nil {
		b.Fatal(err)
	}
	benchmarkEstimator(b, est, 100, 2)
}

// BenchmarkKDE_N1000D2 measures the mixture-gradient baseline.
func BenchmarkKDE_N1000D2(b *testing.B) {
	est, err := score.NewKDE()
	if err != nil {
		b.Fatal(err)
	}
	xs, xq := benchFixture(1000, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := est.EstimateGradientsSX(xq, xs); err != nil {
			b.Fatal(err)
		}
	}
}

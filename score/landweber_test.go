// SPDX-License-Identifier: MIT

package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/scorekit/scorekit/kernel"
	"github.com/scorekit/scorekit/score"
)

// steepData is a tiny 1-D set whose curl-free Gram at bandwidth 0.05
// has eigenvalues far above the unit-step stability range, so both
// explicit iterations provably diverge on it.
func steepData() []kernel.Point {
	return []kernel.Point{{0}, {0.1}, {0.2}}
}

// Landweber converges too slowly for a tight accuracy bound at a
// practical budget; the contract is that the run completes, stays
// finite, and reports its (mediocre) fit through the residual warning
// channel rather than an error.
func TestLandweberCompletes(t *testing.T) {
	xs, xq, loc, scale := familyData()

	est, err := score.NewLandweber(score.WithBandwidth(1), score.WithIterations(1000))
	require.NoError(t, err)

	got, err := est.EstimateGradientsSX(xq, xs)
	require.NoError(t, err)
	require.Len(t, got, len(xq))
	require.True(t, allFinite(got))

	dist := meanCosDistance(gaussianScores(xq, loc, scale), got)
	assert.Less(t, dist, 0.5)
	t.Logf("landweber mean cosine distance: %.4f (slow convergence expected)", dist)
}

func TestLandweberDefaults(t *testing.T) {
	est, err := score.NewLandweber()
	require.NoError(t, err)
	assert.Equal(t, score.DefaultIterations, est.Iterations())

	est, err = score.NewLandweber(score.WithIterations(25))
	require.NoError(t, err)
	assert.Equal(t, 25, est.Iterations())
}

func TestLandweberConstructorErrors(t *testing.T) {
	cases := []struct {
		name string
		opts []score.Option
		want error
	}{
		{"zero iterations", []score.Option{score.WithIterations(0)}, score.ErrBadIterations},
		{"negative iterations", []score.Option{score.WithIterations(-3)}, score.ErrBadIterations},
		{"lambda not supported", []score.Option{score.WithLambda(1e-4)}, score.ErrInvalidOption},
		{"eta not supported", []score.Option{score.WithEta(0.1)}, score.ErrInvalidOption},
		{"eigen count not supported", []score.Option{score.WithEigenCount(4)}, score.ErrInvalidOption},
		{"bad lengthscales", []score.Option{score.WithLengthscales(1, 0)}, kernel.ErrBadBandwidth},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := score.NewLandweber(tc.opts...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLandweberWarnsOnDivergence(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	est, err := score.NewLandweber(
		score.WithCurlFree(),
		score.WithBandwidth(0.05),
		score.WithIterations(50),
		score.WithLogger(zap.New(core)),
	)
	require.NoError(t, err)

	_, err = est.EstimateGradientsS(steepData())
	require.NoError(t, err)

	entries := logs.FilterMessage("residual did not decrease; estimate may be unreliable").All()
	require.NotEmpty(t, entries)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "landweber", ctx["method"])
	assert.EqualValues(t, 50, ctx["iterations"])
}

// A well-conditioned fit must stay quiet: with unit step and a scalar
// Gram whose spectrum sits inside (0,1], the residual never rises.
func TestLandweberNoWarningWhenStable(t *testing.T) {
	xs, _, _, _ := familyData()
	core, logs := observer.New(zap.WarnLevel)

	est, err := score.NewLandweber(
		score.WithBandwidth(1),
		score.WithIterations(100),
		score.WithLogger(zap.New(core)),
	)
	require.NoError(t, err)

	_, err = est.EstimateGradientsS(xs[:40])
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

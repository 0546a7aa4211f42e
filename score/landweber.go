// SPDX-License-Identifier: MIT

package score

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/scorekit/scorekit/kernel"
)

// Landweber estimates scores by explicit fixed-point iteration with
// unit step; the iteration budget is the regularizer (early stopping).
// It avoids any factorization, but converges slowly and is known to
// perform poorly on hard targets; a rising residual is logged as a
// warning rather than failing the call.
type Landweber struct {
	cfg   steinConfig
	iters int
}

var _ Estimator = (*Landweber)(nil)

// NewLandweber builds the estimator. Supported options: WithKernel,
// WithPower, WithBandwidth, WithLengthscales, WithLinearKernel,
// WithIterations, WithCurlFree, WithLogger. WithLinearKernel applies to
// the diagonal backing only.
//
// Errors: ErrInvalidOption, ErrBadIterations, kernel.ErrUnknownKernel,
// kernel.ErrBadPower, kernel.ErrBadBandwidth.
func NewLandweber(opts ...Option) (*Landweber, error) {
	o, err := gatherOptions(optKernel|optPower|optScales|optLinear|optLogger|optIterations|optCurlFree, opts...)
	if err != nil {
		return nil, err
	}
	if o.iterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadIterations, o.iterations)
	}
	cfg, err := newSteinConfig(o)
	if err != nil {
		return nil, err
	}
	return &Landweber{cfg: cfg, iters: o.iterations}, nil
}

// Iterations reports the configured step budget.
func (l *Landweber) Iterations() int { return l.iters }

// EstimateGradientsSX implements Estimator.
func (l *Landweber) EstimateGradientsSX(queries, samples []kernel.Point) ([]kernel.Point, error) {
	if _, err := checkPair(queries, samples); err != nil {
		return nil, err
	}
	op, err := l.cfg.operator(samples)
	if err != nil {
		return nil, err
	}
	st := op.fitLandweber(l.iters)
	op.warnIfDiverged(l.cfg.logger, "landweber", st, zap.Int("iterations", l.iters))
	return op.predict(queries, st)
}

// EstimateGradientsS implements Estimator; it is the queries = samples
// case of EstimateGradientsSX.
func (l *Landweber) EstimateGradientsS(x []kernel.Point) ([]kernel.Point, error) {
	return l.EstimateGradientsSX(x, x)
}

// SPDX-License-Identifier: MIT

package score

import (
	"fmt"

	"github.com/scorekit/scorekit/kernel"
)

// Tikhonov estimates scores with the closed-form spectral filter
// 1/(σ+λ): one regularized solve against the empirical operator. The
// cheapest and most reliable member of the family; cost is a single
// n×n factorization shared by the output dimensions (diagonal backing)
// or one (n·d)×(n·d) factorization (curl-free backing).
type Tikhonov struct {
	cfg    steinConfig
	lambda float64
}

var _ Estimator = (*Tikhonov)(nil)

// NewTikhonov builds the estimator. Supported options: WithKernel,
// WithPower, WithBandwidth, WithLengthscales, WithLinearKernel,
// WithLambda, WithCurlFree, WithLogger. WithLinearKernel applies to the
// diagonal backing only.
//
// Errors: ErrInvalidOption, ErrBadLambda, kernel.ErrUnknownKernel,
// kernel.ErrBadPower, kernel.ErrBadBandwidth.
func NewTikhonov(opts ...Option) (*Tikhonov, error) {
	o, err := gatherOptions(optKernel|optPower|optScales|optLinear|optLogger|optLambda|optCurlFree, opts...)
	if err != nil {
		return nil, err
	}
	if !validScalar(o.lambda) {
		return nil, fmt.Errorf("%w: got %v", ErrBadLambda, o.lambda)
	}
	cfg, err := newSteinConfig(o)
	if err != nil {
		return nil, err
	}
	return &Tikhonov{cfg: cfg, lambda: o.lambda}, nil
}

// Lambda reports the configured regularization strength.
func (t *Tikhonov) Lambda() float64 { return t.lambda }

// EstimateGradientsSX implements Estimator.
func (t *Tikhonov) EstimateGradientsSX(queries, samples []kernel.Point) ([]kernel.Point, error) {
	if _, err := checkPair(queries, samples); err != nil {
		return nil, err
	}
	op, err := t.cfg.operator(samples)
	if err != nil {
		return nil, err
	}
	st, err := op.fitTikhonov(t.lambda)
	if err != nil {
		return nil, err
	}
	return op.predict(queries, st)
}

// EstimateGradientsS implements Estimator; it is the queries = samples
// case of EstimateGradientsSX.
func (t *Tikhonov) EstimateGradientsS(x []kernel.Point) ([]kernel.Point, error) {
	return t.EstimateGradientsSX(x, x)
}

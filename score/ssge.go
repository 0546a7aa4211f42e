// SPDX-License-Identifier: MIT

package score

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/scorekit/scorekit/gram"
	"github.com/scorekit/scorekit/kernel"
)

// eigenFloor is the smallest retained eigenvalue considered healthy;
// anything at or below it triggers a near-singularity warning.
const eigenFloor = 1e-8

// SSGE is the spectral Stein gradient estimator: it expands the score
// in the leading Nyström eigenfunctions of the sample Gram matrix and
// obtains the expansion coefficients from Stein's identity. Truncation
// is the regularizer; exactly one policy must be configured, either a
// fixed eigenpair count or a cumulative eigenvalue-mass threshold.
type SSGE struct {
	kern           kernel.Kernel
	scales         []float64 // nil: median heuristic at estimation time
	linear         bool
	logger         *zap.Logger
	eta            float64
	eigenCount     int     // 0 under the threshold policy
	eigenThreshold float64 // 0 under the count policy
}

var _ Estimator = (*SSGE)(nil)

// NewSSGE builds the estimator. Supported options: WithKernel,
// WithPower, WithBandwidth, WithLengthscales, WithLinearKernel,
// WithEta, WithEigenCount, WithEigenThreshold, WithLogger. Exactly one
// of WithEigenCount and WithEigenThreshold is required.
//
// Errors: ErrInvalidOption, ErrBadEta, ErrEigenPolicy,
// kernel.ErrUnknownKernel, kernel.ErrBadPower, kernel.ErrBadBandwidth.
func NewSSGE(opts ...Option) (*SSGE, error) {
	o, err := gatherOptions(
		optKernel|optPower|optScales|optLinear|optLogger|optEta|optEigenCount|optEigenThreshold,
		opts...)
	if err != nil {
		return nil, err
	}
	if !validScalar(o.eta) {
		return nil, fmt.Errorf("%w: got %v", ErrBadEta, o.eta)
	}

	hasCount := o.touched&optEigenCount != 0
	hasThreshold := o.touched&optEigenThreshold != 0
	switch {
	case hasCount == hasThreshold:
		return nil, fmt.Errorf("%w: count set %t, threshold set %t",
			ErrEigenPolicy, hasCount, hasThreshold)
	case hasCount && o.eigenCount < 1:
		return nil, fmt.Errorf("%w: count %d", ErrEigenPolicy, o.eigenCount)
	case hasThreshold && !(o.eigenThreshold > 0 && o.eigenThreshold <= 1):
		return nil, fmt.Errorf("%w: threshold %v", ErrEigenPolicy, o.eigenThreshold)
	}

	kern, err := o.kernelFamily()
	if err != nil {
		return nil, err
	}
	if o.scales != nil {
		if _, err := kernel.Scales(o.scales, len(o.scales)); err != nil {
			return nil, err
		}
	}

	e := &SSGE{
		kern:   kern,
		scales: o.scales,
		linear: o.linear,
		logger: o.logger,
		eta:    o.eta,
	}
	if hasCount {
		e.eigenCount = o.eigenCount
	} else {
		e.eigenThreshold = o.eigenThreshold
	}
	return e, nil
}

// ssgeFit is the per-call fitted expansion.
type ssgeFit struct {
	samples []kernel.Point
	builder *gram.Builder
	vecs    *mat.Dense // n×J, descending eigenvector columns
	values  []float64  // J descending eigenvalues of K + ηI
	beta    *mat.Dense // J×d Stein coefficients
	root    float64    // √n
}

// fit eigendecomposes the ridged Gram of the samples and computes the
// Stein coefficients of the retained eigenfunctions.
func (e *SSGE) fit(samples []kernel.Point) (*ssgeFit, error) {
	d, err := kernel.CheckSet(samples)
	if err != nil {
		return nil, fmt.Errorf("samples: %w", err)
	}
	ls, err := resolveScales(e.scales, samples, d)
	if err != nil {
		return nil, err
	}
	bOpts := []gram.Option{gram.WithKernel(e.kern), gram.WithScales(ls...)}
	if e.linear {
		bOpts = append(bOpts, gram.WithLinearKernel())
	}
	b, err := gram.New(bOpts...)
	if err != nil {
		return nil, err
	}
	k, g1, _, err := b.GradGram(samples, samples)
	if err != nil {
		return nil, err
	}

	n := len(samples)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, k.At(i, i)+e.eta)
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, k.At(i, j))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, ErrEigenFailure
	}
	asc := eig.Values(nil)
	var allVecs mat.Dense
	eig.VectorsTo(&allVecs)

	// EigenSym orders ascending; the expansion wants the leading spectrum.
	desc := make([]float64, n)
	for j := range desc {
		desc[j] = asc[n-1-j]
	}

	j := e.retained(desc)
	for idx := 0; idx < j; idx++ {
		if desc[idx] <= eigenFloor {
			e.logger.Warn("near-singular eigenvalue retained; estimate may be unreliable",
				zap.Int("index", idx),
				zap.Float64("eigenvalue", desc[idx]),
				zap.Float64("floor", eigenFloor))
			break
		}
	}

	vecs := mat.NewDense(n, j, nil)
	for col := 0; col < j; col++ {
		for i := 0; i < n; i++ {
			vecs.Set(i, col, allVecs.At(i, n-1-col))
		}
	}

	// β_jt = −(1/(√n·λ_j))·Σ_i v_ij·(Σ_m G1[m,i,t])
	var colsum mat.Dense
	colsum.Scale(float64(n), g1.MeanOverRows())
	var beta mat.Dense
	beta.Mul(vecs.T(), &colsum)
	root := math.Sqrt(float64(n))
	for row := 0; row < j; row++ {
		floats.Scale(-1/(root*desc[row]), beta.RawRowView(row))
	}

	return &ssgeFit{
		samples: samples,
		builder: b,
		vecs:    vecs,
		values:  desc[:j],
		beta:    &beta,
		root:    root,
	}, nil
}

// retained applies the configured truncation policy to the descending
// spectrum.
func (e *SSGE) retained(desc []float64) int {
	n := len(desc)
	if e.eigenCount > 0 {
		if e.eigenCount < n {
			return e.eigenCount
		}
		return n
	}
	total := floats.Sum(desc)
	var acc float64
	for j, v := range desc {
		acc += v
		if acc/total > e.eigenThreshold {
			return j + 1
		}
	}
	return n
}

// predictAt evaluates the expansion at new queries through the Nyström
// eigenfunctions ψ_j(z) = (√n/λ_j)·Σ_i v_ij·k(z, x_i).
func (f *ssgeFit) predictAt(queries []kernel.Point) ([]kernel.Point, error) {
	kq, err := f.builder.Gram(queries, f.samples)
	if err != nil {
		return nil, err
	}
	var psi mat.Dense
	psi.Mul(kq, f.vecs)
	nq, j := psi.Dims()
	for col := 0; col < j; col++ {
		scale := f.root / f.values[col]
		for row := 0; row < nq; row++ {
			psi.Set(row, col, psi.At(row, col)*scale)
		}
	}
	var out mat.Dense
	out.Mul(&psi, f.beta)
	return denseRows(&out), nil
}

// predictTrain evaluates the expansion at the samples themselves, where
// ψ_j(x_i) = √n·v_ij exactly.
func (f *ssgeFit) predictTrain() []kernel.Point {
	var out mat.Dense
	out.Mul(f.vecs, f.beta)
	out.Scale(f.root, &out)
	return denseRows(&out)
}

// EstimateGradientsSX implements Estimator.
func (e *SSGE) EstimateGradientsSX(queries, samples []kernel.Point) ([]kernel.Point, error) {
	if _, err := checkPair(queries, samples); err != nil {
		return nil, err
	}
	f, err := e.fit(samples)
	if err != nil {
		return nil, err
	}
	return f.predictAt(queries)
}

// EstimateGradientsS implements Estimator through the training-point
// shortcut: no cross Gram is built.
func (e *SSGE) EstimateGradientsS(x []kernel.Point) ([]kernel.Point, error) {
	f, err := e.fit(x)
	if err != nil {
		return nil, err
	}
	return f.predictTrain(), nil
}

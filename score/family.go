// SPDX-License-Identifier: MIT

// Shared machinery of the spectral-filter estimators (Tikhonov,
// Landweber, ν-method). By Stein's identity the score s solves the
// ill-posed system L̂·s ≈ −ξ̂, with L̂ the empirical kernel integral
// operator of the sample set and ξ̂ the empirical divergence field.
// Each estimator applies a different spectral filter g_λ to that
// system, and every filtered solution lies in span{ξ̂, K(·,x_j)}, so a
// fit reduces to the pair (a, c): one scalar weight on the divergence
// field plus one coefficient per sample and output dimension. The
// prediction at a query q is then
//
//	ŝ(q) = a·ξ̂(q) + Σ_j K(q, x_j)·c_j
//
// and evaluating it at the samples reproduces the training solve, which
// is exactly the in-sample operation.
//
// Two backings realize the operator: the diagonal matrix kernel
// decouples the output dimensions into d scalar systems on the n×n
// Gram; the curl-free kernel couples them through one (n·d)×(n·d)
// block system.
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

// steinConfig is the validated configuration shared by the family.
type steinConfig struct {
	kern     kernel.Kernel
	scales   []float64 // nil: median heuristic at estimation time
	linear   bool
	curlFree bool
	logger   *zap.Logger
}

func newSteinConfig(o options) (steinConfig, error) {
	kern, err := o.kernelFamily()
	if err != nil {
		return steinConfig{}, err
	}
	if o.scales != nil {
		if _, err := kernel.Scales(o.scales, len(o.scales)); err != nil {
			return steinConfig{}, err
		}
	}
	// The curl-free tables are closed forms in s alone; there is no
	// linear term to augment them with.
	if o.curlFree && o.linear {
		return steinConfig{}, fmt.Errorf(
			"%w: WithLinearKernel cannot be combined with WithCurlFree", ErrInvalidOption)
	}
	return steinConfig{
		kern:     kern,
		scales:   o.scales,
		linear:   o.linear,
		curlFree: o.curlFree,
		logger:   o.logger,
	}, nil
}

// steinState is a fitted estimate: the scalar divergence weight plus the
// flattened per-sample coefficients (row-major sample×dimension).
type steinState struct {
	a float64
	c []float64
}

// steinOperator holds the empirical operator of one sample set in the
// configured backing, plus what prediction needs to evaluate cross
// terms against new queries.
type steinOperator struct {
	m, d int

	gramK  *mat.Dense    // diagonal backing (nil when curl-free)
	blockK *mat.SymDense // curl-free backing (nil when diagonal)
	h      []float64     // ξ̂ at the samples, flattened, length m·d

	builder *gram.Builder       // diagonal cross terms
	mk      kernel.MatrixKernel // curl-free cross terms
	sigma   float64             // curl-free isotropic scale
	samples []kernel.Point
}

// operator builds the configured backing over the samples.
func (c *steinConfig) operator(samples []kernel.Point) (*steinOperator, error) {
	d, err := kernel.CheckSet(samples)
	if err != nil {
		return nil, fmt.Errorf("samples: %w", err)
	}
	ls, err := resolveScales(c.scales, samples, d)
	if err != nil {
		return nil, err
	}
	if c.curlFree {
		sigma, ok := kernel.Isotropic(ls)
		if !ok {
			return nil, fmt.Errorf("%w: got per-dimension scales", kernel.ErrAnisotropicScale)
		}
		return newCurlFreeOperator(kernel.NewCurlFree(c.kern), sigma, samples, d), nil
	}
	bOpts := []gram.Option{gram.WithKernel(c.kern), gram.WithScales(ls...)}
	if c.linear {
		bOpts = append(bOpts, gram.WithLinearKernel())
	}
	b, err := gram.New(bOpts...)
	if err != nil {
		return nil, err
	}
	return newDiagonalOperator(b, samples, d)
}

// newDiagonalOperator derives the decoupled backing from the scalar
// Gram and the divergence mean b̄[i,t] = (1/m)·Σ_j ∂k(x_i,x_j)/∂x_j[t].
func newDiagonalOperator(b *gram.Builder, samples []kernel.Point, d int) (*steinOperator, error) {
	k, _, g2, err := b.GradGram(samples, samples)
	if err != nil {
		return nil, err
	}
	return &steinOperator{
		m:       len(samples),
		d:       d,
		gramK:   k,
		h:       flatten(g2.MeanOverCols()),
		builder: b,
		samples: samples,
	}, nil
}

// newCurlFreeOperator assembles the (m·d)×(m·d) block Gram and the
// stacked divergence mean from the matrix kernel.
func newCurlFreeOperator(mk kernel.MatrixKernel, sigma float64, samples []kernel.Point, d int) *steinOperator {
	m := len(samples)
	size := m * d
	big := mat.NewSymDense(size, nil)
	blk := mat.NewSymDense(d, nil)
	div := make([]float64, d)
	h := make([]float64, size)

	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			mk.BlockTo(blk, samples[i], samples[j], sigma)
			for a := 0; a < d; a++ {
				bStart := 0
				if j == i {
					bStart = a
				}
				for bb := bStart; bb < d; bb++ {
					big.SetSym(i*d+a, j*d+bb, blk.At(a, bb))
				}
			}
		}
		for j := 0; j < m; j++ {
			mk.DivergenceTo(div, samples[i], samples[j], sigma)
			floats.Add(h[i*d:(i+1)*d], div)
		}
	}
	floats.Scale(1/float64(m), h)

	return &steinOperator{
		m:       m,
		d:       d,
		blockK:  big,
		h:       h,
		mk:      mk,
		sigma:   sigma,
		samples: samples,
	}
}

// size is the flattened unknown count m·d.
func (op *steinOperator) size() int { return op.m * op.d }

// mulK computes dst = K·src over the flattened layout.
func (op *steinOperator) mulK(dst, src []float64) {
	if op.blockK != nil {
		mat.NewVecDense(len(dst), dst).MulVec(op.blockK, mat.NewVecDense(len(src), src))
		return
	}
	mat.NewDense(op.m, op.d, dst).Mul(op.gramK, mat.NewDense(op.m, op.d, src))
}

// entry reads K at flattened indices regardless of backing.
func (op *steinOperator) entry(i, j int) float64 {
	if op.blockK != nil {
		return op.blockK.At(i, j)
	}
	return op.gramK.At(i, j)
}

// solveRidge solves (K/m + λI)·x = rhs into dst. Cholesky first; LU if
// the shifted matrix is not numerically positive definite.
func (op *steinOperator) solveRidge(dst, rhs []float64, lam float64) error {
	size, cols := op.m, op.d
	if op.blockK != nil {
		size, cols = op.m*op.d, 1
	}
	a := mat.NewSymDense(size, nil)
	inv := 1 / float64(op.m)
	for i := 0; i < size; i++ {
		for j := i; j < size; j++ {
			v := op.entry(i, j) * inv
			if i == j {
				v += lam
			}
			a.SetSym(i, j, v)
		}
	}

	b := mat.NewDense(size, cols, rhs)
	x := mat.NewDense(size, cols, dst)
	var chol mat.Cholesky
	if chol.Factorize(a) {
		return chol.SolveTo(x, b)
	}
	var lu mat.LU
	lu.Factorize(a)
	return lu.SolveTo(x, false, b)
}

// fitTikhonov applies the closed-form filter 1/(σ+λ): a single ridge
// solve, then a = −1/λ and c = −S/(λm).
func (op *steinOperator) fitTikhonov(lam float64) (steinState, error) {
	size := op.size()
	rhs := make([]float64, size)
	for i, v := range op.h {
		rhs[i] = -v
	}
	s := make([]float64, size)
	if err := op.solveRidge(s, rhs, lam); err != nil {
		return steinState{}, fmt.Errorf("score: ridge solve: %w", err)
	}
	c := make([]float64, size)
	scale := -1 / (lam * float64(op.m))
	for i, v := range s {
		c[i] = scale * v
	}
	return steinState{a: -1 / lam, c: c}, nil
}

// fitLandweber runs the explicit fixed-point iteration with unit step:
// per step the in-sample values are S = a·h + K·c, then a ← a−1 and
// c ← c − S/m. Regularization comes from stopping after iters steps.
func (op *steinOperator) fitLandweber(iters int) steinState {
	size := op.size()
	st := steinState{c: make([]float64, size)}
	s := make([]float64, size)
	kc := make([]float64, size)
	invM := 1 / float64(op.m)
	for k := 0; k < iters; k++ {
		op.mulK(kc, st.c)
		for i := range s {
			s[i] = st.a*op.h[i] + kc[i]
		}
		st.a--
		floats.AddScaled(st.c, -invM, s)
	}
	return st
}

// fitNu runs Brakhage's accelerated two-term recurrence at ν = 1 for
// ⌊1/√λ⌋ + 1 steps.
func (op *steinOperator) fitNu(lam float64) steinState {
	const nu = 1.0
	steps := int(1/math.Sqrt(lam)) + 1
	size := op.size()

	prev := steinState{c: make([]float64, size)}
	omega1 := (4*nu + 2) / (4*nu + 1)
	cur := steinState{a: -omega1, c: make([]float64, size)}

	s := make([]float64, size)
	kc := make([]float64, size)
	for k := 2; k <= steps; k++ {
		fk := float64(k)
		u := ((fk - 1) * (2*fk - 3) * (2*fk + 2*nu - 1)) /
			((fk + 2*nu - 1) * (2*fk + 4*nu - 1) * (2*fk + 2*nu - 3))
		w := 4 * (2*fk + 2*nu - 1) * (fk + nu - 1) /
			((fk + 2*nu - 1) * (2*fk + 4*nu - 1))

		op.mulK(kc, cur.c)
		for i := range s {
			s[i] = cur.a*op.h[i] + kc[i]
		}

		next := steinState{a: cur.a + u*(cur.a-prev.a) - w, c: make([]float64, size)}
		wm := w / float64(op.m)
		for i := range next.c {
			next.c[i] = cur.c[i] + u*(cur.c[i]-prev.c[i]) - wm*s[i]
		}
		prev, cur = cur, next
	}
	return cur
}

// residual returns ‖(K/m)·S + h‖₂ for the state's in-sample values
// S = a·h + K·c: how far the fitted field is from solving the system.
func (op *steinOperator) residual(st steinState) float64 {
	size := op.size()
	s := make([]float64, size)
	op.mulK(s, st.c)
	for i := range s {
		s[i] += st.a * op.h[i]
	}
	r := make([]float64, size)
	op.mulK(r, s)
	invM := 1 / float64(op.m)
	for i := range r {
		r[i] = r[i]*invM + op.h[i]
	}
	return floats.Norm(r, 2)
}

// warnIfDiverged logs when an iterative fit ended farther from the
// system than the zero field it started from, or produced non-finite
// values. The estimate is still returned.
func (op *steinOperator) warnIfDiverged(logger *zap.Logger, method string, st steinState, fields ...zap.Field) {
	r0 := floats.Norm(op.h, 2)
	rf := op.residual(st)
	if math.IsNaN(rf) || math.IsInf(rf, 0) || rf > r0 {
		all := append([]zap.Field{
			zap.String("method", method),
			zap.Float64("initial_residual", r0),
			zap.Float64("final_residual", rf),
		}, fields...)
		logger.Warn("residual did not decrease; estimate may be unreliable", all...)
	}
}

// predict evaluates ŝ(q) = a·ξ̂(q) + Σ_j K(q,x_j)·c_j at each query.
func (op *steinOperator) predict(queries []kernel.Point, st steinState) ([]kernel.Point, error) {
	if op.blockK != nil {
		return op.predictCurlFree(queries, st), nil
	}
	kq, _, g2q, err := op.builder.GradGram(queries, op.samples)
	if err != nil {
		return nil, err
	}
	xi := g2q.MeanOverCols() // cross divergence mean, n_q×d

	var out mat.Dense
	out.Mul(kq, mat.NewDense(op.m, op.d, st.c))
	var scaled mat.Dense
	scaled.Scale(st.a, xi)
	out.Add(&out, &scaled)
	return denseRows(&out), nil
}

func (op *steinOperator) predictCurlFree(queries []kernel.Point, st steinState) []kernel.Point {
	d := op.d
	blk := mat.NewSymDense(d, nil)
	div := make([]float64, d)
	aM := st.a / float64(op.m)

	out := make([]kernel.Point, len(queries))
	for qi, q := range queries {
		row := make(kernel.Point, d)
		for j, x := range op.samples {
			op.mk.BlockTo(blk, q, x, op.sigma)
			cj := st.c[j*d : (j+1)*d]
			for a := 0; a < d; a++ {
				var acc float64
				for b := 0; b < d; b++ {
					acc += blk.At(a, b) * cj[b]
				}
				row[a] += acc
			}
			op.mk.DivergenceTo(div, q, x, op.sigma)
			floats.AddScaled(row, aM, div)
		}
		out[qi] = row
	}
	return out
}

// flatten returns the row-major contents of a dense matrix.
func flatten(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}
	out := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}

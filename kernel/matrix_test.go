// SPDX-License-Identifier: MIT

package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/scorekit/scorekit/kernel"
)

// scalarKernel evaluates the base kernel on raw points, k(x,y) = g(‖x−y‖²/σ²).
func scalarKernel(base kernel.Kernel, x, y kernel.Point, sigma float64) float64 {
	var s float64
	for t := range x {
		u := (x[t] - y[t]) / sigma
		s += u * u
	}
	return base.Eval(s)
}

// mixedDeriv is the 4-point finite difference of ∂²k/∂x_a∂y_b.
func mixedDeriv(base kernel.Kernel, x, y kernel.Point, sigma float64, a, b int) float64 {
	const h = 1e-4
	xp, xm := append(kernel.Point{}, x...), append(kernel.Point{}, x...)
	xp[a] += h
	xm[a] -= h
	yp, ym := append(kernel.Point{}, y...), append(kernel.Point{}, y...)
	yp[b] += h
	ym[b] -= h
	return (scalarKernel(base, xp, yp, sigma) -
		scalarKernel(base, xp, ym, sigma) -
		scalarKernel(base, xm, yp, sigma) +
		scalarKernel(base, xm, ym, sigma)) / (4 * h * h)
}

func bases(t *testing.T) []kernel.Kernel {
	t.Helper()
	imqp, err := kernel.NewIMQP(1.5)
	require.NoError(t, err)
	return []kernel.Kernel{kernel.SE{}, kernel.IMQ{}, imqp}
}

func TestCurlFreeBlockMatchesMixedDerivative(t *testing.T) {
	x := kernel.Point{0.3, -1.1, 0.7}
	y := kernel.Point{-0.4, 0.2, 1.5}
	const sigma = 1.3

	for _, base := range bases(t) {
		mk := kernel.NewCurlFree(base)
		blk := mat.NewSymDense(3, nil)
		mk.BlockTo(blk, x, y, sigma)

		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				want := mixedDeriv(base, x, y, sigma, a, b)
				assert.InDelta(t, want, blk.At(a, b), 1e-5,
					"%s block[%d,%d]", base.Name(), a, b)
			}
		}
	}
}

func TestCurlFreeDivergenceMatchesBlockDivergence(t *testing.T) {
	x := kernel.Point{0.3, -1.1, 0.7}
	y := kernel.Point{-0.4, 0.2, 1.5}
	const (
		sigma = 1.3
		h     = 1e-6
	)

	for _, base := range bases(t) {
		mk := kernel.NewCurlFree(base)
		div := make([]float64, 3)
		mk.DivergenceTo(div, x, y, sigma)

		plus, minus := mat.NewSymDense(3, nil), mat.NewSymDense(3, nil)
		for a := 0; a < 3; a++ {
			var want float64
			for b := 0; b < 3; b++ {
				yp, ym := append(kernel.Point{}, y...), append(kernel.Point{}, y...)
				yp[b] += h
				ym[b] -= h
				mk.BlockTo(plus, x, yp, sigma)
				mk.BlockTo(minus, x, ym, sigma)
				want += (plus.At(a, b) - minus.At(a, b)) / (2 * h)
			}
			assert.InDelta(t, want, div[a], 1e-6, "%s div[%d]", base.Name(), a)
		}
	}
}

func TestCurlFreeSelfBlockIsPositiveDefinite(t *testing.T) {
	x := kernel.Point{0.5, -0.25}
	for _, base := range bases(t) {
		mk := kernel.NewCurlFree(base)
		blk := mat.NewSymDense(2, nil)
		mk.BlockTo(blk, x, x, 0.8)

		var chol mat.Cholesky
		assert.True(t, chol.Factorize(blk), base.Name())
	}
}

func TestDiagonalBlock(t *testing.T) {
	x := kernel.Point{1, 0, -2}
	y := kernel.Point{0.5, 0.5, -1}
	const sigma = 2.0

	mk := kernel.NewDiagonal(kernel.SE{})
	blk := mat.NewSymDense(3, nil)
	mk.BlockTo(blk, x, y, sigma)

	want := scalarKernel(kernel.SE{}, x, y, sigma)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if a == b {
				assert.InDelta(t, want, blk.At(a, b), 1e-15)
			} else {
				assert.Zero(t, blk.At(a, b))
			}
		}
	}
}

func TestDiagonalDivergenceMatchesScalarGradient(t *testing.T) {
	x := kernel.Point{1, 0, -2}
	y := kernel.Point{0.5, 0.5, -1}
	const (
		sigma = 2.0
		h     = 1e-6
	)

	for _, base := range bases(t) {
		mk := kernel.NewDiagonal(base)
		div := make([]float64, 3)
		mk.DivergenceTo(div, x, y, sigma)

		for a := 0; a < 3; a++ {
			yp, ym := append(kernel.Point{}, y...), append(kernel.Point{}, y...)
			yp[a] += h
			ym[a] -= h
			want := (scalarKernel(base, x, yp, sigma) - scalarKernel(base, x, ym, sigma)) / (2 * h)
			assert.InDelta(t, want, div[a], 1e-8, "%s div[%d]", base.Name(), a)
		}
	}
}

func TestMatrixKernelNames(t *testing.T) {
	assert.Equal(t, "diagonal(se)", kernel.NewDiagonal(kernel.SE{}).Name())
	assert.Equal(t, "curlfree(imq)", kernel.NewCurlFree(kernel.IMQ{}).Name())
}

func TestMatrixKernelNilBasePanics(t *testing.T) {
	assert.Panics(t, func() { kernel.NewDiagonal(nil) })
	assert.Panics(t, func() { kernel.NewCurlFree(nil) })
}

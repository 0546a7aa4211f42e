// SPDX-License-Identifier: MIT

// Matrix-valued kernels. A MatrixKernel maps a point pair to a symmetric
// d×d block; stacking blocks over two point sets yields the (n·d)×(m·d)
// operator Gram matrix used by the curl-free Stein machinery.
//
// Two structures are provided:
//
//   - Diagonal: K(x,y) = k(x,y)·I_d. Its operator Gram decouples into d
//     independent scalar systems, which the estimators exploit.
//   - SquareCurlFree: K(x,y)[a,b] = ∂²k/∂x_a∂y_b. For any scalar field f
//     the induced field y ↦ K(x,y)∇f(y) is curl-free, the structural
//     property Stein-identity estimators rely on.
//
// With u = x−y, s = ‖u‖²/σ² and g the radial profile:
//
//	curl-free block:  K[a,b] = −(4/σ⁴)·g″(s)·u_a·u_b − (2/σ²)·g′(s)·δ_ab
//	divergence in y:  ξ_a    = ((8/σ⁴)·s·g‴(s) + (4(d+2)/σ⁴)·g″(s))·u_a
//
// Both identities are checked against finite differences in the tests,
// along with positive semi-definiteness of K(x,x).
package kernel

import (
	"gonum.org/v1/gonum/mat"
)

// Stable messages for constructor misuse (programmer error, not data).
const panicNilBase = "kernel: nil base kernel"

// MatrixKernel is a matrix-valued kernel over point pairs with an
// isotropic length scale sigma. Blocks are symmetric for both provided
// structures, so destinations are gonum SymDense matrices.
type MatrixKernel interface {
	// Name reports the structure and base family, e.g. "curlfree(imq)".
	Name() string
	// Base returns the scalar family the structure is built over.
	Base() Kernel
	// BlockTo writes the d×d value K(x,y) into dst, which must be d×d.
	BlockTo(dst *mat.SymDense, x, y Point, sigma float64)
	// DivergenceTo writes ∇_y·K(x,y) into dst, which must have length d.
	DivergenceTo(dst []float64, x, y Point, sigma float64)
}

// Diagonal is the scalar kernel times identity: K(x,y) = k(x,y)·I_d.
type Diagonal struct{ base Kernel }

// NewDiagonal wraps a scalar family as a diagonal matrix kernel.
// Passing a nil base is programmer error and panics.
func NewDiagonal(base Kernel) Diagonal {
	if base == nil {
		panic(panicNilBase)
	}
	return Diagonal{base: base}
}

// Name implements MatrixKernel.
func (k Diagonal) Name() string { return "diagonal(" + k.base.Name() + ")" }

// Base implements MatrixKernel.
func (k Diagonal) Base() Kernel { return k.base }

// BlockTo writes k(x,y)·I_d.
func (k Diagonal) BlockTo(dst *mat.SymDense, x, y Point, sigma float64) {
	d := len(x)
	s := isoSqDist(x, y, sigma)
	v := k.base.Eval(s)
	for a := 0; a < d; a++ {
		dst.SetSym(a, a, v)
		for b := a + 1; b < d; b++ {
			dst.SetSym(a, b, 0)
		}
	}
}

// DivergenceTo writes ∂k/∂y per dimension: −(2/σ²)·g′(s)·u_a.
func (k Diagonal) DivergenceTo(dst []float64, x, y Point, sigma float64) {
	s := isoSqDist(x, y, sigma)
	c := -2.0 * k.base.D1(s) / (sigma * sigma)
	for a := range dst {
		dst[a] = c * (x[a] - y[a])
	}
}

// SquareCurlFree is the mixed-derivative structure ∂²k/∂x∂y over a
// scalar family.
type SquareCurlFree struct{ base Kernel }

// NewCurlFree wraps a scalar family as a curl-free matrix kernel.
// Passing a nil base is programmer error and panics.
func NewCurlFree(base Kernel) SquareCurlFree {
	if base == nil {
		panic(panicNilBase)
	}
	return SquareCurlFree{base: base}
}

// Name implements MatrixKernel.
func (k SquareCurlFree) Name() string { return "curlfree(" + k.base.Name() + ")" }

// Base implements MatrixKernel.
func (k SquareCurlFree) Base() Kernel { return k.base }

// BlockTo writes −(4/σ⁴)·g″·u_a·u_b − (2/σ²)·g′·δ_ab.
func (k SquareCurlFree) BlockTo(dst *mat.SymDense, x, y Point, sigma float64) {
	d := len(x)
	s2 := sigma * sigma
	s := isoSqDist(x, y, sigma)
	c1 := -4.0 * k.base.D2(s) / (s2 * s2)
	c2 := -2.0 * k.base.D1(s) / s2
	for a := 0; a < d; a++ {
		ua := x[a] - y[a]
		dst.SetSym(a, a, c1*ua*ua+c2)
		for b := a + 1; b < d; b++ {
			dst.SetSym(a, b, c1*ua*(x[b]-y[b]))
		}
	}
}

// DivergenceTo writes ((8/σ⁴)·s·g‴ + (4(d+2)/σ⁴)·g″)·u_a.
func (k SquareCurlFree) DivergenceTo(dst []float64, x, y Point, sigma float64) {
	d := len(dst)
	s2 := sigma * sigma
	s := isoSqDist(x, y, sigma)
	c := (8.0*s*k.base.D3(s) + 4.0*float64(d+2)*k.base.D2(s)) / (s2 * s2)
	for a := range dst {
		dst[a] = c * (x[a] - y[a])
	}
}

// isoSqDist is ScaledSqDist for an isotropic scale.
func isoSqDist(x, y Point, sigma float64) float64 {
	var s float64
	for t := range x {
		u := (x[t] - y[t]) / sigma
		s += u * u
	}
	return s
}

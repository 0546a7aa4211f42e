// SPDX-License-Identifier: MIT

package gram

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/scorekit/scorekit/kernel"
)

// parallelThreshold is the row count beyond which fills fan out across
// GOMAXPROCS goroutines. Rows are disjoint, so the result is identical
// to the serial fill.
const parallelThreshold = 64

// Builder produces Gram matrices and gradient tensors for one fixed
// kernel configuration. A Builder is immutable and safe for concurrent
// use.
type Builder struct {
	kern   kernel.Kernel
	scales []float64
	linear bool
}

// New validates the gathered options and returns a Builder.
//
// Errors:
//   - kernel.ErrUnknownKernel: a nil kernel was supplied.
//   - kernel.ErrBadBandwidth: empty scales, or any entry
//     non-positive/non-finite.
func New(opts ...Option) (*Builder, error) {
	o := gatherOptions(opts...)
	if o.kern == nil {
		return nil, fmt.Errorf("%w: nil kernel", kernel.ErrUnknownKernel)
	}
	// Length-against-dimension is checked per call; value validity once here.
	if _, err := kernel.Scales(o.scales, len(o.scales)); err != nil {
		return nil, err
	}
	return &Builder{
		kern:   o.kern,
		scales: append([]float64(nil), o.scales...),
		linear: o.linear,
	}, nil
}

// Kernel returns the configured scalar family.
func (b *Builder) Kernel() kernel.Kernel { return b.kern }

// Linear reports whether the linear-kernel augmentation is active.
func (b *Builder) Linear() bool { return b.linear }

// Gram returns the n×m matrix K with K[i,j] = k(xs[i], ys[j]), plus
// ⟨xs[i], ys[j]⟩ under the linear augmentation.
//
// Errors: kernel.ErrEmptySet, kernel.ErrDimensionMismatch (within a set,
// between the two sets, or between scales and the set dimension).
func (b *Builder) Gram(xs, ys []kernel.Point) (*mat.Dense, error) {
	_, ls, err := b.checkPair(xs, ys)
	if err != nil {
		return nil, err
	}
	n, m := len(xs), len(ys)
	k := mat.NewDense(n, m, nil)
	forEachRow(n, func(i int) {
		row := k.RawRowView(i)
		x := xs[i]
		for j, y := range ys {
			v := b.kern.Eval(kernel.ScaledSqDist(x, y, ls))
			if b.linear {
				v += floats.Dot(x, y)
			}
			row[j] = v
		}
	})
	return k, nil
}

// GradGram returns K together with the exact gradient tensors
//
//	G1[i,j,t] = ∂k(xs[i], ys[j])/∂xs[i][t]
//	G2[i,j,t] = ∂k(xs[i], ys[j])/∂ys[j][t]
//
// For the radial families G2 = −G1; the linear augmentation adds
// ys[j][t] to G1 and xs[i][t] to G2.
//
// Errors: as for Gram.
func (b *Builder) GradGram(xs, ys []kernel.Point) (*mat.Dense, *Grads, *Grads, error) {
	d, ls, err := b.checkPair(xs, ys)
	if err != nil {
		return nil, nil, nil, err
	}
	n, m := len(xs), len(ys)
	k := mat.NewDense(n, m, nil)
	g1 := newGrads(n, m, d)
	g2 := newGrads(n, m, d)

	// inv2[t] = 2/l_t², the chain-rule factor of s = ‖(x−y)/l‖².
	inv2 := make([]float64, d)
	for t, l := range ls {
		inv2[t] = 2.0 / (l * l)
	}

	forEachRow(n, func(i int) {
		row := k.RawRowView(i)
		x := xs[i]
		for j, y := range ys {
			s := kernel.ScaledSqDist(x, y, ls)
			v := b.kern.Eval(s)
			gp := b.kern.D1(s)
			r1 := g1.row(i, j)
			r2 := g2.row(i, j)
			for t := 0; t < d; t++ {
				g := gp * inv2[t] * (x[t] - y[t])
				r1[t] = g
				r2[t] = -g
			}
			if b.linear {
				v += floats.Dot(x, y)
				floats.Add(r1, y)
				floats.Add(r2, x)
			}
			row[j] = v
		}
	})
	return k, g1, g2, nil
}

// checkPair validates both point sets and canonicalizes the scales to
// the shared dimension.
func (b *Builder) checkPair(xs, ys []kernel.Point) (int, []float64, error) {
	dx, err := kernel.CheckSet(xs)
	if err != nil {
		return 0, nil, fmt.Errorf("left set: %w", err)
	}
	dy, err := kernel.CheckSet(ys)
	if err != nil {
		return 0, nil, fmt.Errorf("right set: %w", err)
	}
	if dx != dy {
		return 0, nil, fmt.Errorf("%w: left is %d-dimensional, right is %d-dimensional",
			kernel.ErrDimensionMismatch, dx, dy)
	}
	ls, err := kernel.Scales(b.scales, dx)
	if err != nil {
		return 0, nil, err
	}
	return dx, ls, nil
}

// forEachRow runs fill for every row index, fanning out across
// GOMAXPROCS goroutines for large row counts. Each worker owns a strided
// subset of rows; writes never overlap.
func forEachRow(n int, fill func(i int)) {
	if n < parallelThreshold {
		for i := 0; i < n; i++ {
			fill(i)
		}
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			for i := start; i < n; i += workers {
				fill(i)
			}
		}(w)
	}
	wg.Wait()
}

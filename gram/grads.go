// SPDX-License-Identifier: MIT

package gram

import "gonum.org/v1/gonum/mat"

// Grads is a dense n×m×d tensor of kernel gradients: entry (i, j, t) is
// the derivative of k(xs[i], ys[j]) in coordinate t of one argument
// (the first argument for G1, the second for G2). Storage is row-major
// in (i, j, t); the tensor is immutable once returned by a Builder.
type Grads struct {
	n, m, d int
	data    []float64
}

// newGrads allocates an n×m×d tensor of zeros.
func newGrads(n, m, d int) *Grads {
	return &Grads{n: n, m: m, d: d, data: make([]float64, n*m*d)}
}

// Dims returns the tensor shape (rows, columns, coordinates).
func (g *Grads) Dims() (n, m, d int) { return g.n, g.m, g.d }

// At returns entry (i, j, t). Indices are not range-checked beyond the
// slice bounds themselves.
func (g *Grads) At(i, j, t int) float64 {
	return g.data[(i*g.m+j)*g.d+t]
}

// row returns the mutable d-length slice for pair (i, j). Builder use only.
func (g *Grads) row(i, j int) []float64 {
	off := (i*g.m + j) * g.d
	return g.data[off : off+g.d]
}

// MeanOverRows averages out the first index: the result is m×d with
// entry (j, t) = (1/n)·Σ_i At(i, j, t).
func (g *Grads) MeanOverRows() *mat.Dense {
	out := mat.NewDense(g.m, g.d, nil)
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.m; j++ {
			row := out.RawRowView(j)
			src := g.data[(i*g.m+j)*g.d : (i*g.m+j+1)*g.d]
			for t, v := range src {
				row[t] += v
			}
		}
	}
	out.Scale(1/float64(g.n), out)
	return out
}

// MeanOverCols averages out the second index: the result is n×d with
// entry (i, t) = (1/m)·Σ_j At(i, j, t).
func (g *Grads) MeanOverCols() *mat.Dense {
	out := mat.NewDense(g.n, g.d, nil)
	for i := 0; i < g.n; i++ {
		row := out.RawRowView(i)
		for j := 0; j < g.m; j++ {
			src := g.data[(i*g.m+j)*g.d : (i*g.m+j+1)*g.d]
			for t, v := range src {
				row[t] += v
			}
		}
	}
	out.Scale(1/float64(g.m), out)
	return out
}

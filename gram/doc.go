// SPDX-License-Identifier: MIT

// Package gram builds kernel Gram matrices and their exact gradient
// tensors between two point sets.
//
// 🚀 What lives here?
//
//	A Builder captures a kernel family, its length scales and the
//	optional linear-kernel augmentation, then produces:
//	  • Gram(xs, ys)     → K, the n×m matrix of kernel values
//	  • GradGram(xs, ys) → K plus G1 = ∂K/∂x and G2 = ∂K/∂y, two
//	    n×m×d tensors of exact closed-form gradients
//
// ✨ Why a dedicated layer?
//
//	Every score estimator consumes the same three objects. Building
//	them once, with one validation path and one parallel fill, keeps
//	the estimators free of index bookkeeping. For translation-invariant
//	kernels G2 = −G1 exactly; the linear augmentation k += ⟨x,y⟩
//	breaks that symmetry (G1 += y, G2 += x), so both tensors are
//	materialized.
//
// ⚙️ Usage:
//
//	b, err := gram.New(gram.WithKernel(kernel.IMQ{}), gram.WithScales(2.5))
//	K, err := b.Gram(xs, ys)
//	K, g1, g2, err := b.GradGram(xs, ys)
//
// Fills are data-parallel over rows above a fixed size threshold;
// results are deterministic either way because rows are disjoint.
//
// Complexity: O(n·m·d) time, O(n·m·(1+2d)) space for GradGram.
package gram

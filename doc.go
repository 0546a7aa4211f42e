// Package scorekit estimates score functions — the gradient of the log
// density, ∇x log p(x) — directly from i.i.d. samples, without ever
// fitting the density itself.
//
// 🚀 What is scorekit?
//
//	A nonparametric toolkit built on kernel methods that brings together:
//		• Kernel families: squared-exponential, inverse multiquadric (+ power variant)
//		• Curl-free matrix kernels for conservative vector-field estimates
//		• Gram builders: values plus analytic gradients in one pass
//		• Spectral filters: Tikhonov (closed form), Landweber, ν-method
//		• Spectral Stein gradient estimator (Nyström eigenfunctions)
//		• Kernel density baseline with Scott's-rule bandwidths
//
// ✨ Why choose scorekit?
//
//   - Sample in, gradient out – no parametric model, no training loop
//   - Deterministic – estimators are immutable and every call is a pure
//     function of its arguments
//   - Honest numerics – ill-conditioned fits warn instead of silently
//     degrading; invalid configurations fail construction
//   - gonum under the hood – dense algebra, eigendecompositions and
//     factorizations from one battle-tested stack
//
// Under the hood, everything is organized under three subpackages:
//
//	kernel/ — scalar kernel families, derivative tables, matrix kernels,
//	          the median-distance bandwidth heuristic
//	gram/   — Gram and gradient-Gram builders over point sets
//	score/  — the estimators: Tikhonov, Landweber, ν-method, SSGE, KDE
//
// Quick sketch:
//
//	samples ──▶ Gram K, divergence ξ̂ ──▶ spectral filter g_λ ──▶ ŝ(·)
//
//	est, _ := score.NewTikhonov(score.WithLambda(1e-4))
//	grads, _ := est.EstimateGradientsSX(queries, samples)
//
// Dive into score/doc.go for the estimator catalogue and examples/ for
// runnable scenarios.
//
//	go get github.com/scorekit/scorekit
package scorekit

// SPDX-License-Identifier: MIT

// Package score estimates the score function ∇x log p(x) of an unknown
// density from i.i.d. samples alone.
//
// 🚀 What lives here?
//
//	Five estimators, four of them behind one contract (out-of-sample
//	estimates at arbitrary queries, in-sample estimates over the
//	training set):
//	  • KDE       — Gaussian mixture baseline; also exposes the
//	    normalized log-density itself (no in-sample variant)
//	  • SSGE      — spectral Stein gradient estimator: Nyström
//	    eigenfunction expansion, truncation as the regularizer
//	  • Tikhonov  — closed-form spectral filter, one ridge solve
//	  • Landweber — fixed-point iteration, early stopping
//	  • NuMethod  — Brakhage's accelerated iteration (ν = 1)
//
//	The last three share the Stein-identity machinery: the empirical
//	kernel operator of the samples, its divergence field, and a fitted
//	(a, c) state evaluated against cross-kernel terms at prediction
//	time. They run on the diagonal matrix-kernel backing by default
//	and on the curl-free backing with WithCurlFree().
//
// ✨ Design
//
//	Estimators are immutable after construction (functional options,
//	validated once) and every estimate is a pure function of
//	(queries, samples), so concurrent use needs no locking. Dense
//	algebra is delegated to gonum; numerical trouble (near-singular
//	spectra, rising iteration residuals) is logged through the
//	configured zap logger and never fails the call.
//
// ⚙️ Usage:
//
//	est, err := score.NewTikhonov(
//	    score.WithKernel(kernel.NameIMQ),
//	    score.WithBandwidth(20),
//	    score.WithLambda(5e-6),
//	)
//	grads, err := est.EstimateGradientsSX(queries, samples)
//	self, err := est.EstimateGradientsS(samples)
//
// Bandwidths default to the median pairwise distance of the samples
// (Scott's rule for KDE); estimators never guess hyperparameters that
// change the method itself, so SSGE requires exactly one truncation
// policy.
package score

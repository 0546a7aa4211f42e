// SPDX-License-Identifier: MIT

// Package kernel provides the scalar and matrix-valued reproducing kernels
// used across scorekit, together with their exact radial derivatives.
//
// 🚀 What lives here?
//
//	Every kernel in scorekit is radial: k(x,y) = g(s) with
//	s = ‖(x−y)/l‖² the squared scaled distance. This package defines:
//	  • Scalar families: SE (squared-exponential), IMQ (inverse
//	    multiquadric) and IMQP (generalized IMQ power variant)
//	  • Radial derivatives g′, g″, g‴ in closed form — no autodiff
//	  • Matrix-valued kernels: Diagonal (k·I_d) and SquareCurlFree
//	    (mixed second derivatives ∂²k/∂x∂y), the structure required by
//	    Stein-identity score estimators
//	  • MedianHeuristic — the data-derived default length scale
//
// ✨ Why closed forms?
//
//	Score estimation needs kernel gradients w.r.t. both arguments and,
//	for curl-free kernels, third radial derivatives. All families here
//	depend on s alone, so the derivatives are short, exact expressions
//	verified against finite differences in the test suite.
//
// ⚙️ Usage:
//
//	k, err := kernel.Parse("imq")          // or kernel.SE{}, kernel.IMQ{}
//	s := kernel.ScaledSqDist(x, y, scales) // ‖(x−y)/l‖²
//	v := k.Eval(s)
//
//	cf := kernel.NewCurlFree(kernel.IMQ{}) // matrix-valued variant
//	block := mat.NewSymDense(d, nil)
//	cf.BlockTo(block, x, y, sigma)
//
// Curl-free kernels require an isotropic (scalar) length scale; the
// anisotropic mixed-derivative tables have no closed form in s alone.
//
// Performance: every evaluation is O(d); no allocation on hot paths.
package kernel

// SPDX-License-Identifier: MIT

package score

import "errors"

var (
	// ErrBadEta indicates a non-positive or non-finite ridge for the SSGE
	// Gram conditioning.
	ErrBadEta = errors.New("score: eta must be positive and finite")

	// ErrBadLambda indicates a non-positive or non-finite regularization
	// strength for the spectral-filter estimators.
	ErrBadLambda = errors.New("score: lambda must be positive and finite")

	// ErrBadIterations indicates a non-positive iteration budget.
	ErrBadIterations = errors.New("score: iteration budget must be positive")

	// ErrEigenPolicy indicates an invalid truncation policy: exactly one of
	// the eigenvalue count and the cumulative-mass threshold must be set,
	// and the set one must be in range (count ≥ 1, threshold in (0,1]).
	ErrEigenPolicy = errors.New("score: exactly one valid eigenvalue truncation policy required")

	// ErrInvalidOption indicates an option that the target estimator does
	// not support (for example WithLambda on a Landweber estimator).
	ErrInvalidOption = errors.New("score: option not supported by this estimator")

	// ErrEigenFailure indicates that the symmetric eigendecomposition did
	// not converge. This is a numerical failure, not a configuration one.
	ErrEigenFailure = errors.New("score: eigendecomposition failed to converge")
)

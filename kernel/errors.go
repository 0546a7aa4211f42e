// SPDX-License-Identifier: MIT

package kernel

import "errors"

var (
	// ErrUnknownKernel indicates a kernel identifier outside the supported
	// registry (se, imq, imqp).
	ErrUnknownKernel = errors.New("kernel: unknown kernel identifier")

	// ErrBadBandwidth indicates a non-positive or non-finite length scale.
	ErrBadBandwidth = errors.New("kernel: bandwidth must be positive and finite")

	// ErrBadPower indicates a non-positive or non-finite IMQP exponent.
	ErrBadPower = errors.New("kernel: imqp power must be positive and finite")

	// ErrDimensionMismatch indicates point sets or scale vectors with
	// incompatible feature dimensionality.
	ErrDimensionMismatch = errors.New("kernel: feature dimensions do not match")

	// ErrEmptySet indicates an operation that requires at least one point
	// (two for the median heuristic) received too few.
	ErrEmptySet = errors.New("kernel: point set has too few points")

	// ErrAnisotropicScale indicates a per-dimension length-scale vector was
	// supplied to a curl-free kernel, which only supports isotropic scales.
	ErrAnisotropicScale = errors.New("kernel: curl-free kernels require an isotropic length scale")
)

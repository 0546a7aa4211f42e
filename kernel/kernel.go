// SPDX-License-Identifier: MIT

// Scalar kernel families. All of scorekit's kernels are radial:
// k(x,y) = g(s) at s = ‖(x−y)/l‖², so a family is fully described by
// g and its first three derivatives in s. The derivative tables below
// are exact; the test suite checks them against central finite
// differences for every family.
package kernel

import (
	"fmt"
	"math"
)

// Registry identifiers accepted by Parse.
const (
	// NameSE selects the squared-exponential family k = exp(−s/2).
	NameSE = "se"
	// NameIMQ selects the inverse multiquadric family k = (1+s)^(−1/2).
	NameIMQ = "imq"
	// NameIMQP selects the generalized power family k = (1+s)^(−p).
	NameIMQP = "imqp"
)

// DefaultPower is the IMQP exponent used by Parse; at p = 1/2 the family
// coincides with IMQ.
const DefaultPower = 0.5

// Point is one d-dimensional location (a sample or a query).
type Point = []float64

// Kernel is a radial scalar kernel evaluated through g(s), together with
// the radial derivatives needed for exact Gram gradients (D1) and for
// curl-free matrix kernels (D2, D3).
type Kernel interface {
	// Name reports the registry identifier of the family.
	Name() string
	// Eval returns g(s).
	Eval(s float64) float64
	// D1 returns dg/ds.
	D1(s float64) float64
	// D2 returns d²g/ds².
	D2(s float64) float64
	// D3 returns d³g/ds³.
	D3(s float64) float64
}

// SE is the squared-exponential (Gaussian) kernel, g(s) = exp(−s/2).
type SE struct{}

// Name implements Kernel.
func (SE) Name() string { return NameSE }

// Eval returns exp(−s/2).
func (SE) Eval(s float64) float64 { return math.Exp(-0.5 * s) }

// D1 returns −exp(−s/2)/2.
func (SE) D1(s float64) float64 { return -0.5 * math.Exp(-0.5*s) }

// D2 returns exp(−s/2)/4.
func (SE) D2(s float64) float64 { return 0.25 * math.Exp(-0.5*s) }

// D3 returns −exp(−s/2)/8.
func (SE) D3(s float64) float64 { return -0.125 * math.Exp(-0.5*s) }

// IMQ is the inverse multiquadric kernel, g(s) = (1+s)^(−1/2).
type IMQ struct{}

// Name implements Kernel.
func (IMQ) Name() string { return NameIMQ }

// Eval returns (1+s)^(−1/2).
func (IMQ) Eval(s float64) float64 { return 1.0 / math.Sqrt(1.0+s) }

// D1 returns −(1+s)^(−3/2)/2.
func (IMQ) D1(s float64) float64 { return -0.5 * math.Pow(1.0+s, -1.5) }

// D2 returns 3(1+s)^(−5/2)/4.
func (IMQ) D2(s float64) float64 { return 0.75 * math.Pow(1.0+s, -2.5) }

// D3 returns −15(1+s)^(−7/2)/8.
func (IMQ) D3(s float64) float64 { return -1.875 * math.Pow(1.0+s, -3.5) }

// IMQP is the generalized inverse multiquadric kernel g(s) = (1+s)^(−p),
// p > 0. Construct through NewIMQP so the exponent is validated once.
type IMQP struct {
	// P is the positive exponent of the family.
	P float64
}

// NewIMQP returns the power-p inverse multiquadric family.
// A non-positive or non-finite p yields ErrBadPower.
func NewIMQP(p float64) (IMQP, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return IMQP{}, fmt.Errorf("%w: got %v", ErrBadPower, p)
	}
	return IMQP{P: p}, nil
}

// Name implements Kernel.
func (IMQP) Name() string { return NameIMQP }

// Eval returns (1+s)^(−p).
func (k IMQP) Eval(s float64) float64 { return math.Pow(1.0+s, -k.P) }

// D1 returns −p(1+s)^(−p−1).
func (k IMQP) D1(s float64) float64 { return -k.P * math.Pow(1.0+s, -k.P-1.0) }

// D2 returns p(p+1)(1+s)^(−p−2).
func (k IMQP) D2(s float64) float64 {
	return k.P * (k.P + 1.0) * math.Pow(1.0+s, -k.P-2.0)
}

// D3 returns −p(p+1)(p+2)(1+s)^(−p−3).
func (k IMQP) D3(s float64) float64 {
	return -k.P * (k.P + 1.0) * (k.P + 2.0) * math.Pow(1.0+s, -k.P-3.0)
}

// Parse resolves a registry identifier to its kernel family.
// "imqp" uses DefaultPower; construct IMQP directly for other exponents.
// Unknown identifiers yield ErrUnknownKernel.
func Parse(name string) (Kernel, error) {
	switch name {
	case NameSE:
		return SE{}, nil
	case NameIMQ:
		return IMQ{}, nil
	case NameIMQP:
		return IMQP{P: DefaultPower}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
}

// Scales canonicalizes a scalar-or-per-dimension length scale to exactly
// d entries. A single entry broadcasts to every dimension. The result is
// always a fresh slice.
//
// Errors:
//   - ErrBadBandwidth: empty input, or any entry non-positive/non-finite.
//   - ErrDimensionMismatch: len(l) is neither 1 nor d.
func Scales(l []float64, d int) ([]float64, error) {
	if len(l) == 0 {
		return nil, fmt.Errorf("%w: no length scale supplied", ErrBadBandwidth)
	}
	for _, v := range l {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, fmt.Errorf("%w: got %v", ErrBadBandwidth, v)
		}
	}
	out := make([]float64, d)
	switch len(l) {
	case 1:
		for t := range out {
			out[t] = l[0]
		}
	case d:
		copy(out, l)
	default:
		return nil, fmt.Errorf("%w: %d length scales for dimension %d",
			ErrDimensionMismatch, len(l), d)
	}
	return out, nil
}

// Isotropic reports whether every entry of a canonical scale vector is
// identical, and returns that shared value when so.
func Isotropic(ls []float64) (float64, bool) {
	if len(ls) == 0 {
		return 0, false
	}
	for _, v := range ls[1:] {
		if v != ls[0] {
			return 0, false
		}
	}
	return ls[0], true
}

// ScaledSqDist returns s = ‖(x−y)/l‖². The caller guarantees that x, y
// and ls share one length; Gram builders validate this once per call,
// not once per pair.
func ScaledSqDist(x, y Point, ls []float64) float64 {
	var s float64
	for t := range x {
		u := (x[t] - y[t]) / ls[t]
		s += u * u
	}
	return s
}

// CheckSet verifies that pts is non-empty with one consistent dimension
// and returns that dimension.
func CheckSet(pts []Point) (int, error) {
	if len(pts) == 0 {
		return 0, fmt.Errorf("%w: empty point set", ErrEmptySet)
	}
	d := len(pts[0])
	if d == 0 {
		return 0, fmt.Errorf("%w: zero-dimensional points", ErrEmptySet)
	}
	for i, p := range pts {
		if len(p) != d {
			return 0, fmt.Errorf("%w: point %d has dimension %d, want %d",
				ErrDimensionMismatch, i, len(p), d)
		}
	}
	return d, nil
}

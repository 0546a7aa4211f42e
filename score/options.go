// SPDX-License-Identifier: MIT

// Functional configuration for the score estimators. This file defines:
//   - Option (one shared functional-option type for all five estimators),
//   - documented defaults (constants, single source of truth),
//   - With* setters (record-only; constructors validate),
//   - gatherOptions, which applies defaults, setters and the
//     per-estimator allow-list.
//
// Every constructor accepts the same Option type but supports a subset
// of the setters; an option outside an estimator's subset is a
// configuration error (ErrInvalidOption), never a silent no-op.
package score

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/scorekit/scorekit/kernel"
)

// Defaults (single source of truth; mirrored by defaultOptions).
const (
	// DefaultKernel is the kernel identifier used when WithKernel is absent.
	DefaultKernel = kernel.NameSE

	// DefaultEta is the conditioning ridge added to the SSGE Gram matrix
	// before eigendecomposition.
	DefaultEta = 0.1

	// DefaultLambda is the Tikhonov regularization strength.
	DefaultLambda = 1e-5

	// DefaultNuLambda is the ν-method regularization strength; it sets the
	// step budget T = ⌊1/√λ⌋ + 1.
	DefaultNuLambda = 1e-4

	// DefaultIterations is the Landweber step budget.
	DefaultIterations = 1000
)

// Option records one configuration setting. Setters never validate;
// constructors gather, validate, and reject unsupported settings.
type Option func(*options)

// Bits identifying which settings a call site touched, so constructors
// can distinguish "absent" from "explicitly set to the default".
const (
	optKernel = 1 << iota
	optPower
	optScales
	optLinear
	optLogger
	optEta
	optLambda
	optIterations
	optEigenCount
	optEigenThreshold
	optCurlFree
)

// optionNames maps touched bits to the setter names used in
// ErrInvalidOption messages.
var optionNames = map[uint32]string{
	optKernel:         "WithKernel",
	optPower:          "WithPower",
	optScales:         "WithBandwidth/WithLengthscales",
	optLinear:         "WithLinearKernel",
	optLogger:         "WithLogger",
	optEta:            "WithEta",
	optLambda:         "WithLambda",
	optIterations:     "WithIterations",
	optEigenCount:     "WithEigenCount",
	optEigenThreshold: "WithEigenThreshold",
	optCurlFree:       "WithCurlFree",
}

type options struct {
	touched uint32

	kernName       string
	power          float64
	scales         []float64 // nil: data-derived default at estimation time
	linear         bool
	logger         *zap.Logger
	eta            float64
	lambda         float64
	iterations     int
	eigenCount     int
	eigenThreshold float64
	curlFree       bool
}

func defaultOptions() options {
	return options{
		kernName:   DefaultKernel,
		power:      kernel.DefaultPower,
		logger:     zap.NewNop(),
		eta:        DefaultEta,
		lambda:     DefaultLambda,
		iterations: DefaultIterations,
	}
}

// gatherOptions resolves defaults, applies setters in order and enforces
// the estimator's allow-list. Value validation stays with the
// constructors, which know their own ranges.
func gatherOptions(allowed uint32, opts ...Option) (options, error) {
	o := defaultOptions()
	for _, set := range opts {
		set(&o)
	}
	if extra := o.touched &^ allowed; extra != 0 {
		for bit := uint32(optKernel); bit <= optCurlFree; bit <<= 1 {
			if extra&bit != 0 {
				return options{}, fmt.Errorf("%w: %s", ErrInvalidOption, optionNames[bit])
			}
		}
	}
	return o, nil
}

// kernelFamily resolves the configured identifier (and IMQP power) to a
// concrete family.
func (o *options) kernelFamily() (kernel.Kernel, error) {
	if o.touched&optPower != 0 && o.kernName != kernel.NameIMQP {
		return nil, fmt.Errorf("%w: WithPower requires the %q kernel",
			ErrInvalidOption, kernel.NameIMQP)
	}
	if o.kernName == kernel.NameIMQP {
		return kernel.NewIMQP(o.power)
	}
	return kernel.Parse(o.kernName)
}

// validScalar reports a positive finite value.
func validScalar(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// WithKernel selects the scalar kernel family by registry identifier
// (kernel.NameSE, kernel.NameIMQ, kernel.NameIMQP). Default: se.
func WithKernel(name string) Option {
	return func(o *options) {
		o.kernName = name
		o.touched |= optKernel
	}
}

// WithPower sets the IMQP exponent; requires WithKernel(kernel.NameIMQP).
// Default: kernel.DefaultPower.
func WithPower(p float64) Option {
	return func(o *options) {
		o.power = p
		o.touched |= optPower
	}
}

// WithBandwidth sets one isotropic length scale. Default: data-derived
// (median heuristic; Scott's rule for KDE).
func WithBandwidth(sigma float64) Option {
	return func(o *options) {
		o.scales = []float64{sigma}
		o.touched |= optScales
	}
}

// WithLengthscales sets per-dimension length scales. The vector length
// must be 1 (broadcast) or the data dimension, checked at estimation
// time. Curl-free backings require an isotropic scale.
func WithLengthscales(l ...float64) Option {
	return func(o *options) {
		// Keep empty input non-nil: nil means "use the data-derived
		// default", an explicit empty vector is a validation error.
		o.scales = append([]float64{}, l...)
		o.touched |= optScales
	}
}

// WithLinearKernel augments the kernel with the inner product ⟨x,y⟩
// (SSGE and the diagonal-backed spectral filters). Default: off.
func WithLinearKernel() Option {
	return func(o *options) {
		o.linear = true
		o.touched |= optLinear
	}
}

// WithLogger sets the logger receiving instability warnings. A nil
// logger silences them. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
		o.touched |= optLogger
	}
}

// WithEta sets the SSGE conditioning ridge. Default: DefaultEta.
func WithEta(eta float64) Option {
	return func(o *options) {
		o.eta = eta
		o.touched |= optEta
	}
}

// WithLambda sets the regularization strength for Tikhonov and the
// ν-method. Defaults: DefaultLambda, DefaultNuLambda respectively.
func WithLambda(lam float64) Option {
	return func(o *options) {
		o.lambda = lam
		o.touched |= optLambda
	}
}

// WithIterations sets the Landweber step budget. Default: DefaultIterations.
func WithIterations(n int) Option {
	return func(o *options) {
		o.iterations = n
		o.touched |= optIterations
	}
}

// WithEigenCount keeps the leading n eigenpairs (SSGE). Exactly one of
// WithEigenCount and WithEigenThreshold must be given.
func WithEigenCount(n int) Option {
	return func(o *options) {
		o.eigenCount = n
		o.touched |= optEigenCount
	}
}

// WithEigenThreshold keeps the smallest leading set of eigenpairs whose
// cumulative eigenvalue mass reaches tau ∈ (0,1] (SSGE). Exactly one of
// WithEigenCount and WithEigenThreshold must be given.
func WithEigenThreshold(tau float64) Option {
	return func(o *options) {
		o.eigenThreshold = tau
		o.touched |= optEigenThreshold
	}
}

// WithCurlFree backs the spectral-filter estimators with the curl-free
// matrix kernel over the configured scalar family, coupling all output
// dimensions through one (n·d)×(n·d) system. Default: diagonal backing
// with per-dimension decoupled solves.
func WithCurlFree() Option {
	return func(o *options) {
		o.curlFree = true
		o.touched |= optCurlFree
	}
}

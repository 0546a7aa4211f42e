// SPDX-License-Identifier: MIT

package gram

import (
	"github.com/scorekit/scorekit/kernel"
)

// DefaultScale is the length scale used when no WithScales option is given.
const DefaultScale = 1.0

// Option configures a Builder. Setters only record values; New validates
// the gathered configuration once and reports errors there.
type Option func(*options)

type options struct {
	kern   kernel.Kernel
	scales []float64
	linear bool
}

func defaultOptions() options {
	return options{
		kern:   kernel.SE{},
		scales: []float64{DefaultScale},
	}
}

func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, set := range opts {
		set(&o)
	}
	return o
}

// WithKernel selects the scalar kernel family. Default: kernel.SE.
func WithKernel(k kernel.Kernel) Option {
	return func(o *options) { o.kern = k }
}

// WithScales sets the length scales: one value is broadcast to every
// dimension, d values are applied per dimension. Values must be positive
// and finite. Default: DefaultScale for every dimension.
func WithScales(l ...float64) Option {
	return func(o *options) { o.scales = l }
}

// WithLinearKernel augments kernel values with the inner product ⟨x,y⟩
// and the gradients accordingly (G1 += y, G2 += x). Default: off.
func WithLinearKernel() Option {
	return func(o *options) { o.linear = true }
}

// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deform

// Config holds the tunable parameters of the ARAP iteration, in the
// style of inp.SolverData: zero-valued fields are filled by
// SetDefault with the values spec.md prescribes.
type Config struct {
	MaxIters               int     `json:"maxiters"`               // hard cap on ARAP iterations
	Atol                   float64 `json:"atol"`                   // stop when |Delta(k-1)-Delta(k)| < Atol
	Btol                   float64 `json:"btol"`                   // stop when Delta(k) < Btol
	WeightEpsilon          float64 `json:"weightepsilon"`          // drop |w_ij| below this
	SvdDegenerateThreshold float64 `json:"svddegeneratethreshold"` // smallest singular value floor
	RotationZeroThreshold  float64 `json:"rotationzerothreshold"`  // zero R entries below this
	AbsoluteValueWeights   bool    `json:"absolutevalueweights"`   // stabilization: |cos| cotangents
	Parallel               bool    `json:"parallel"`                // parallelize the rotation fit
}

// SetDefault fills zero-valued fields with spec.md's defaults.
func (c *Config) SetDefault() {
	if c.MaxIters == 0 {
		c.MaxIters = 100
	}
	if c.Atol == 0 {
		c.Atol = 1e-4
	}
	if c.Btol == 0 {
		c.Btol = 1e-2
	}
	if c.WeightEpsilon == 0 {
		c.WeightEpsilon = 1e-6
	}
	if c.SvdDegenerateThreshold == 0 {
		c.SvdDegenerateThreshold = 1e-12
	}
	if c.RotationZeroThreshold == 0 {
		c.RotationZeroThreshold = 1e-5
	}
}

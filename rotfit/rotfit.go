// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rotfit computes, for each mesh vertex, the optimal local
// rotation between the rest-pose and current one-ring neighbourhoods
// by fitting a 3x3 covariance matrix and extracting its rotation via
// SVD with a determinant correction.
package rotfit

import (
	"math"
	"sync"

	"github.com/cpmech/arapdeform/cotan"
	"github.com/cpmech/arapdeform/mesh"
	"gonum.org/v1/gonum/mat"
)

// SvdDegenerateThreshold is the default floor below which the
// smallest singular value is considered degenerate.
const SvdDegenerateThreshold = 1e-12

// RotationZeroThreshold is the default floor below which rotation
// matrix entries are zeroed to suppress denormal noise.
const RotationZeroThreshold = 1e-5

// Options tunes the local rotation fitter.
type Options struct {
	SvdDegenerateThreshold float64 // 0 selects SvdDegenerateThreshold
	RotationZeroThreshold  float64 // 0 selects RotationZeroThreshold
	Parallel               bool    // fit vertices concurrently; deterministic, no reduction
	ParallelThreshold      int     // minimum vertex count before Parallel takes effect; 0 selects 512
}

// SetDefault fills zero-valued fields with their defaults.
func (o *Options) SetDefault() {
	if o.SvdDegenerateThreshold == 0 {
		o.SvdDegenerateThreshold = SvdDegenerateThreshold
	}
	if o.RotationZeroThreshold == 0 {
		o.RotationZeroThreshold = RotationZeroThreshold
	}
	if o.ParallelThreshold == 0 {
		o.ParallelThreshold = 512
	}
}

// Fit fills rot[i] with the optimal rotation at vertex i for every i
// in [0,N), given the rest pose m.VRest, the current positions vcur,
// and the cotangent weights w. rot must already have length m.N();
// it is overwritten in place (no per-call allocation of the output
// buffer). Fit never reorders or accumulates across vertices, so
// opts.Parallel produces results identical to the sequential order.
func Fit(m *mesh.Mesh, w *cotan.Weights, vcur []mesh.Vec3, rot []mesh.Mat3, opts Options) {
	opts.SetDefault()
	n := m.N()

	one := func(i int) {
		rot[i] = fitOne(m, w, vcur, i, opts)
	}

	if !opts.Parallel || n < opts.ParallelThreshold {
		for i := 0; i < n; i++ {
			one(i)
		}
		return
	}

	workers := 8
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				one(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func fitOne(m *mesh.Mesh, w *cotan.Weights, vcur []mesh.Vec3, i int, opts Options) mesh.Mat3 {
	ring := m.Ring(i)
	if len(ring) == 0 {
		return mesh.Identity3()
	}

	// S_i = sum_j w_ij * e_ij * e'_ij^T
	var s [3][3]float64
	for _, j := range ring {
		wij := w.W(i, j)
		if wij == 0 {
			continue
		}
		e := m.VRest[i].Sub(m.VRest[j])
		ep := vcur[i].Sub(vcur[j])
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				s[r][c] += wij * e[r] * ep[c]
			}
		}
	}

	data := make([]float64, 9)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			data[r*3+c] = s[r][c]
		}
	}
	S := mat.NewDense(3, 3, data)

	var svd mat.SVD
	if !svd.Factorize(S, mat.SVDFull) {
		return mesh.Identity3()
	}
	values := svd.Values(nil)
	if values[2] < opts.SvdDegenerateThreshold {
		return mesh.Identity3()
	}

	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)

	r := vUt(&V, &U)
	if det3(r) < 0 {
		flipColumn(&V, 2) // column of the smallest singular value
		r = vUt(&V, &U)
	}

	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if math.Abs(r[a][b]) < opts.RotationZeroThreshold {
				r[a][b] = 0
			}
		}
	}
	return r
}

// vUt returns V * U^T as a mesh.Mat3.
func vUt(V, U *mat.Dense) mesh.Mat3 {
	var r mesh.Mat3
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += V.At(a, k) * U.At(b, k)
			}
			r[a][b] = sum
		}
	}
	return r
}

func flipColumn(m *mat.Dense, col int) {
	for r := 0; r < 3; r++ {
		m.Set(r, col, -m.At(r, col))
	}
}

func det3(r mesh.Mat3) float64 {
	return r[0][0]*(r[1][1]*r[2][2]-r[1][2]*r[2][1]) -
		r[0][1]*(r[1][0]*r[2][2]-r[1][2]*r[2][0]) +
		r[0][2]*(r[1][0]*r[2][1]-r[1][1]*r[2][0])
}

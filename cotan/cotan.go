// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cotan computes the symmetric cotangent edge-weight matrix W
// from rest-pose geometry, following the standard discrete Laplace-
// Beltrami construction.
package cotan

import (
	"math"

	"github.com/cpmech/arapdeform/mesh"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// WeightEpsilon is the default sparsity-hygiene threshold: entries
// with |w_ij| below this are dropped.
const WeightEpsilon = 1e-6

// Options tunes the cotangent weight builder.
type Options struct {
	WeightEpsilon float64 // drop |w_ij| below this; 0 selects WeightEpsilon
	AbsoluteValue bool    // stabilization: use |cos| instead of signed cos
	Verbose       bool    // log degenerate-triangle and small-weight diagnostics
}

// SetDefault fills zero-valued fields with their defaults.
func (o *Options) SetDefault() {
	if o.WeightEpsilon == 0 {
		o.WeightEpsilon = WeightEpsilon
	}
}

// Weights holds the symmetric sparse edge-weight matrix W. W[i,i] is
// always zero; degree sums are cached for the Laplacian's diagonal.
type Weights struct {
	N       int
	entries map[mesh.Edge]float64
	degree  []float64 // degree[i] = sum_j W[i,j]
}

// Build computes W from the rest-pose geometry of m.
//
//	w_ij = 1/2 (cot alpha + cot beta)
//
// where alpha, beta are the angles opposite edge {i,j} in its one or
// two incident triangles. Cotangents are computed as cos/sin from
// normalized edge vectors and sin^2 = 1 - cos^2. Entries below
// opts.WeightEpsilon in absolute value are dropped; degenerate
// (zero-area) triangles contribute no weight to their edges and are
// logged, not errored.
func Build(m *mesh.Mesh, opts Options) *Weights {
	opts.SetDefault()

	w := &Weights{
		N:       m.N(),
		entries: make(map[mesh.Edge]float64, m.N()*4),
		degree:  make([]float64, m.N()),
	}

	seen := make(map[mesh.Edge]bool, m.N()*4)
	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			e := mesh.NewEdge(a, b)
			if seen[e] {
				continue
			}
			seen[e] = true

			v0, v1, ok := m.Opposite(a, b)
			if !ok {
				continue
			}
			sum := cotAngle(m, v0, a, b, opts.AbsoluteValue, opts.Verbose)
			if v1 != -1 {
				sum += cotAngle(m, v1, a, b, opts.AbsoluteValue, opts.Verbose)
			}
			wij := 0.5 * sum
			if math.Abs(wij) < opts.WeightEpsilon {
				if opts.Verbose {
					io.Pf("cotan: dropping edge (%d,%d): |w|=%.3e below epsilon\n", a, b, math.Abs(wij))
				}
				continue
			}
			w.entries[e] = wij
			w.degree[a] += wij
			w.degree[b] += wij
		}
	}
	return w
}

// cotAngle returns cot(theta), theta the angle at vertex `at` in the
// triangle formed by at,a,b, opposite the edge {a,b}. Degenerate
// (colinear) configurations return 0 and are logged when verbose.
func cotAngle(m *mesh.Mesh, at, a, b int, absoluteValue, verbose bool) float64 {
	u := m.VRest[a].Sub(m.VRest[at])
	v := m.VRest[b].Sub(m.VRest[at])
	un, vn := u.Norm(), v.Norm()
	if un == 0 || vn == 0 {
		if verbose {
			io.Pf("cotan: degenerate triangle (%d,%d,%d): zero-length edge, skipping\n", at, a, b)
		}
		return 0
	}
	cos := u.Dot(v) / (un * vn)
	if absoluteValue {
		cos = math.Abs(cos)
	}
	sin2 := 1 - cos*cos
	if sin2 <= 0 {
		if verbose {
			io.Pf("cotan: degenerate triangle (%d,%d,%d): colinear, skipping\n", at, a, b)
		}
		return 0
	}
	return cos / math.Sqrt(sin2)
}

// W returns W[i,j] (= W[j,i]), zero if no entry exists or i == j.
func (w *Weights) W(i, j int) float64 {
	if i == j {
		return 0
	}
	return w.entries[mesh.NewEdge(i, j)]
}

// Degree returns D[i,i] = sum_j W[i,j].
func (w *Weights) Degree(i int) float64 {
	return w.degree[i]
}

// Each calls fn(i, j, wij) once per stored undirected edge, i < j.
func (w *Weights) Each(fn func(i, j int, wij float64)) {
	for e, wij := range w.entries {
		fn(e.Lo, e.Hi, wij)
	}
}

// Triplet assembles W into a symmetric gosl/la.Triplet, writing both
// (i,j) and (j,i) from the same value so the matrix is exactly
// symmetric, per the builder's output guarantee.
func (w *Weights) Triplet() *la.Triplet {
	t := new(la.Triplet)
	t.Init(w.N, w.N, 2*len(w.entries))
	w.Each(func(i, j int, wij float64) {
		t.Put(i, j, wij)
		t.Put(j, i, wij)
	})
	return t
}

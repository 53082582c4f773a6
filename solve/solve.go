// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solve implements the ARAP global position step: given the
// current per-vertex rotations, it assembles the right-hand side and
// solves the cached L_ff factorization for the free vertex positions,
// one spatial axis at a time.
package solve

import (
	"sync"

	"github.com/cpmech/arapdeform/cotan"
	"github.com/cpmech/arapdeform/laplace"
	"github.com/cpmech/arapdeform/mesh"
)

// Scratch holds the right-hand-side and solution buffers used by Step.
// It is allocated once per anchor set, so these buffers are not
// reallocated across iterations.
type Scratch struct {
	rhs [3][]float64 // rhs[axis][freeLocalIndex]
	x   [3][]float64 // solution[axis][freeLocalIndex]
}

// NewScratch allocates a Scratch sized for nFree free vertices.
func NewScratch(nFree int) *Scratch {
	s := &Scratch{}
	for a := 0; a < 3; a++ {
		s.rhs[a] = make([]float64, nFree)
		s.x[a] = make([]float64, nFree)
	}
	return s
}

// Step assembles the right-hand side b_i plus the anchor pull
// sum_{j anchor} w_ij*x_j (the anchor columns of L = D - W moved to
// the right), solves L_ff X = rhs for the free vertices, and writes
// the result into vcur. Anchor rows of vcur are never
// touched: the caller is responsible for having pinned them to their
// target positions before the first call.
func Step(m *mesh.Mesh, w *cotan.Weights, fz *laplace.Factorized, rot []mesh.Mat3, vcur []mesh.Vec3, anchors map[int]mesh.Vec3, sc *Scratch) error {
	for a := 0; a < 3; a++ {
		for i := range sc.rhs[a] {
			sc.rhs[a][i] = 0
		}
	}

	for li := 0; li < fz.NFree(); li++ {
		gi := fz.GlobalIndex(li)
		var b mesh.Vec3
		for _, gj := range m.Ring(gi) {
			wij := w.W(gi, gj)
			if wij == 0 {
				continue
			}
			e := m.VRest[gi].Sub(m.VRest[gj])
			rsum := rot[gi].Add(rot[gj])
			b = b.Add(rsum.MulVec(e).Scale(wij / 2))

			if target, isAnchor := anchors[gj]; isAnchor {
				b = b.Add(target.Scale(wij))
			}
		}
		sc.rhs[0][li] = b[0]
		sc.rhs[1][li] = b[1]
		sc.rhs[2][li] = b[2]
	}

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for a := 0; a < 3; a++ {
		wg.Add(1)
		go func(axis int) {
			defer wg.Done()
			errs[axis] = fz.Solve(sc.x[axis], sc.rhs[axis])
		}(a)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for li := 0; li < fz.NFree(); li++ {
		gi := fz.GlobalIndex(li)
		vcur[gi] = mesh.Vec3{sc.x[0][li], sc.x[1][li], sc.x[2][li]}
	}
	return nil
}

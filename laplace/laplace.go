// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package laplace assembles the weighted graph Laplacian L = D - W
// from a cotan.Weights matrix, reduces it to the free-vertex
// submatrix L_ff, and retains a sparse symmetric-positive-definite
// factorization for the global position solve.
package laplace

import (
	"fmt"

	"github.com/cpmech/arapdeform/cotan"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Factorized is the opaque, owned factorization handle of L_ff for a
// fixed (mesh, anchor-set) pair. It is invalidated and rebuilt by
// Reduce whenever the anchor set changes; anchor position changes
// alone do not require rebuilding it.
type Factorized struct {
	n            int   // number of mesh vertices
	freeOf       []int // free-local index -> global vertex index, length NFree
	globalToFree []int // global vertex index -> free-local index, or -1 if anchor
	linsol       la.LinSol
}

// IllConditionedErr reports that L_ff failed to factorize as
// symmetric positive definite -- the caller must add at least one
// anchor, or the anchor set disconnects the mesh.
type IllConditionedErr struct {
	Cause error
}

func (e *IllConditionedErr) Error() string {
	return fmt.Sprintf("laplace: L_ff is not positive-definite (add an anchor): %v", e.Cause)
}

func (e *IllConditionedErr) Unwrap() error { return e.Cause }

// NFree returns the number of free (non-anchor) vertices.
func (fz *Factorized) NFree() int { return len(fz.freeOf) }

// FreeIndex returns the free-local index of global vertex v, or -1 if
// v is an anchor.
func (fz *Factorized) FreeIndex(v int) int { return fz.globalToFree[v] }

// GlobalIndex returns the global vertex index of free-local index i.
func (fz *Factorized) GlobalIndex(i int) int { return fz.freeOf[i] }

// Reduce builds L = D - W from w, extracts L_ff over the complement
// of anchors, and factorizes it. anchors must be a set of distinct
// vertex indices in [0,N); an index outside that range panics.
func Reduce(w *cotan.Weights, anchors map[int]bool) (*Factorized, error) {
	n := w.N
	for v := range anchors {
		if v < 0 || v >= n {
			chk.Panic("laplace: anchor index %d outside [0,%d)", v, n)
		}
	}
	globalToFree := make([]int, n)
	freeOf := make([]int, 0, n-len(anchors))
	for v := 0; v < n; v++ {
		if anchors[v] {
			globalToFree[v] = -1
			continue
		}
		globalToFree[v] = len(freeOf)
		freeOf = append(freeOf, v)
	}
	nFree := len(freeOf)

	// every vertex anchored: no linear system to factorize at all.
	if nFree == 0 {
		return &Factorized{n: n, freeOf: freeOf, globalToFree: globalToFree}, nil
	}

	// triplet-then-compress assembly, sharing W's sparsity pattern
	// restricted to free-free pairs, following fem/domain.go's Kb
	// and fem/essenbcs.go's A assembly idiom.
	nnz := nFree // diagonal
	w.Each(func(i, j int, _ float64) {
		if globalToFree[i] != -1 && globalToFree[j] != -1 {
			nnz += 2
		}
	})
	t := new(la.Triplet)
	t.Init(nFree, nFree, nnz)
	for li, gi := range freeOf {
		t.Put(li, li, w.Degree(gi))
	}
	w.Each(func(i, j int, wij float64) {
		li, lj := globalToFree[i], globalToFree[j]
		if li == -1 || lj == -1 {
			return
		}
		t.Put(li, lj, -wij)
		t.Put(lj, li, -wij)
	})

	linsol := la.GetSolver("umfpack")
	if err := linsol.InitR(t, true, false, false); err != nil {
		return nil, &IllConditionedErr{err}
	}
	if err := linsol.Fact(); err != nil {
		return nil, &IllConditionedErr{err}
	}

	return &Factorized{
		n:            n,
		freeOf:       freeOf,
		globalToFree: globalToFree,
		linsol:       linsol,
	}, nil
}

// Solve writes into dst the solution of L_ff x = rhs, reusing dst's
// backing array (both length NFree()).
func (fz *Factorized) Solve(dst, rhs []float64) error {
	if fz.linsol == nil {
		return nil
	}
	return fz.linsol.SolveR(dst, rhs, false)
}

// Free releases the resources held by the underlying linear solver.
func (fz *Factorized) Free() {
	if fz.linsol != nil {
		fz.linsol.Free()
	}
}

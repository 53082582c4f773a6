// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package deform is the public facade of the ARAP engine: it wires
// mesh, cotan, laplace, rotfit and solve together into the alternating
// local/global iteration of spec.md, mirroring the bounded
// Newton-Raphson loop of fem/s_implicit.go's run_iterations.
package deform

import (
	"context"
	"errors"
	"math"

	"github.com/cpmech/arapdeform/cotan"
	"github.com/cpmech/arapdeform/laplace"
	"github.com/cpmech/arapdeform/mesh"
	"github.com/cpmech/arapdeform/rotfit"
	"github.com/cpmech/arapdeform/solve"
)

// state is the Solver's internal lifecycle, asserted at the top of
// every public method.
type state int

const (
	stateIdle state = iota
	stateBuilding
	stateReady
	stateIterating
	stateConverged
)

// Solver holds one rest-pose mesh, its cotangent weights, and the
// anchor-dependent factorization and scratch buffers needed to run
// repeated Deform calls against it. A Solver is not safe for
// concurrent use by multiple goroutines.
type Solver struct {
	cfg Config

	m *mesh.Mesh
	w *cotan.Weights

	fz      *laplace.Factorized
	anchors map[int]bool
	sc      *solve.Scratch

	vcur   []mesh.Vec3 // current deformed positions, persists across Deform calls (warm start)
	rot    []mesh.Mat3 // per-vertex rotation, persists across Deform calls
	before []mesh.Vec3 // scratch: free-vertex positions before a global step, for Delta and rollback

	st        state
	firstCall bool
}

// New builds the rest-pose topology and cotangent weights for vrest
// and faces and returns an idle Solver. Cfg's zero fields are filled
// via SetDefault. The mesh is validated once here; malformed input is
// reported as *Error with KindNonManifold or KindEmptyMesh.
func New(vrest []mesh.Vec3, faces [][3]int, cfg Config) (*Solver, error) {
	cfg.SetDefault()

	m, err := mesh.Build(vrest, faces)
	if err != nil {
		var nerr *mesh.NErr
		if errors.As(err, &nerr) {
			return nil, &Error{Kind: KindNonManifold, Err: err}
		}
		return nil, &Error{Kind: KindEmptyMesh, Err: err}
	}

	w := cotan.Build(m, cotan.Options{
		WeightEpsilon: cfg.WeightEpsilon,
		AbsoluteValue: cfg.AbsoluteValueWeights,
	})

	vcur := make([]mesh.Vec3, m.N())
	copy(vcur, m.VRest)
	rot := make([]mesh.Mat3, m.N())
	for i := range rot {
		rot[i] = mesh.Identity3()
	}

	return &Solver{
		cfg:  cfg,
		m:    m,
		w:    w,
		vcur: vcur,
		rot:  rot,
		st:   stateIdle,
	}, nil
}

// SetAnchors fixes the set of pinned vertices and (re)builds the
// Laplacian factorization against them. It must be called at least
// once before Deform, and again whenever the anchor *set* changes
// (changing only an anchor's target position does not require this).
// The previous factorization, if any, is released first; if the
// rebuild fails, Deform reports KindNotConfigured until a later
// SetAnchors call succeeds.
func (s *Solver) SetAnchors(anchorIndices []int) error {
	if s.fz != nil {
		s.fz.Free()
		s.fz = nil
	}
	s.st = stateBuilding

	aset := make(map[int]bool, len(anchorIndices))
	for _, v := range anchorIndices {
		aset[v] = true
	}

	fz, err := laplace.Reduce(s.w, aset)
	if err != nil {
		return &Error{Kind: KindIllConditioned, Err: err}
	}

	s.fz = fz
	s.anchors = aset
	s.sc = solve.NewScratch(fz.NFree())
	s.before = make([]mesh.Vec3, s.m.N())
	s.st = stateReady
	s.firstCall = true
	return nil
}

// Reset discards accumulated deformation, returning the Solver to the
// rest pose with identity rotations. It does not forget the anchor
// set or factorization.
func (s *Solver) Reset() {
	copy(s.vcur, s.m.VRest)
	for i := range s.rot {
		s.rot[i] = mesh.Identity3()
	}
	s.firstCall = true
	if s.st == stateConverged {
		s.st = stateReady
	}
}

// Deform runs the alternating local/global ARAP iteration until
// convergence (spec.md's BTOL/ATOL criteria) or cfg.MaxIters is
// reached, pinning each anchor named in targets to its given
// position. Anchors not present in targets keep their last position
// (or the rest position, on the first call). Ctx is checked at the
// start of each iteration and again between the local rotation fit
// and the global solve; a cancelled context returns the current
// positions with a nil error.
//
// Deform may be called repeatedly on the same Solver: vcur and rot
// persist across calls (warm start), so dragging an anchor
// incrementally converges faster than solving from the rest pose
// every time.
func (s *Solver) Deform(ctx context.Context, targets map[int]mesh.Vec3) ([]mesh.Vec3, error) {
	if s.st != stateReady && s.st != stateConverged {
		return nil, &Error{Kind: KindNotConfigured}
	}

	if s.firstCall {
		copy(s.vcur, s.m.VRest)
		s.firstCall = false
	}
	for v, pos := range targets {
		if s.anchors[v] {
			s.vcur[v] = pos
		}
	}

	// solve.Step needs every anchor's current position, not just the
	// ones named in this call's targets -- an anchor left unmentioned
	// keeps the position it was pinned to by a previous call.
	anchorPos := make(map[int]mesh.Vec3, len(s.anchors))
	for v := range s.anchors {
		anchorPos[v] = s.vcur[v]
	}

	s.st = stateIterating

	var prevDelta float64
	for it := 0; it < s.cfg.MaxIters; it++ {
		select {
		case <-ctx.Done():
			s.st = stateConverged
			return s.snapshot(), nil
		default:
		}

		rotfit.Fit(s.m, s.w, s.vcur, s.rot, rotfit.Options{
			SvdDegenerateThreshold: s.cfg.SvdDegenerateThreshold,
			RotationZeroThreshold:  s.cfg.RotationZeroThreshold,
			Parallel:               s.cfg.Parallel,
		})

		select {
		case <-ctx.Done():
			s.st = stateConverged
			return s.snapshot(), nil
		default:
		}

		for li := 0; li < s.fz.NFree(); li++ {
			gi := s.fz.GlobalIndex(li)
			s.before[gi] = s.vcur[gi]
		}

		if err := solve.Step(s.m, s.w, s.fz, s.rot, s.vcur, anchorPos, s.sc); err != nil {
			s.rollback()
			s.st = stateReady
			return s.snapshot(), &Error{Kind: KindNumericalFailure, Err: err}
		}

		delta := s.freeDelta()
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			s.rollback()
			s.st = stateReady
			return s.snapshot(), &Error{Kind: KindNumericalFailure}
		}

		if delta < s.cfg.Btol {
			break
		}
		if it > 0 && math.Abs(prevDelta-delta) < s.cfg.Atol {
			break
		}
		prevDelta = delta
	}

	s.st = stateConverged
	return s.snapshot(), nil
}

// freeDelta returns sum_i ||vcur[i]-before[i]|| over free vertices,
// the Delta_k of spec.md's convergence criteria.
func (s *Solver) freeDelta() float64 {
	var sum float64
	for li := 0; li < s.fz.NFree(); li++ {
		gi := s.fz.GlobalIndex(li)
		sum += s.vcur[gi].Sub(s.before[gi]).Norm()
	}
	return sum
}

// rollback restores the free vertices to their values before the
// failed global step, so a numerical failure leaves vcur usable.
func (s *Solver) rollback() {
	for li := 0; li < s.fz.NFree(); li++ {
		gi := s.fz.GlobalIndex(li)
		s.vcur[gi] = s.before[gi]
	}
}

func (s *Solver) snapshot() []mesh.Vec3 {
	out := make([]mesh.Vec3, len(s.vcur))
	copy(out, s.vcur)
	return out
}

// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deform

import "fmt"

// Kind classifies the way a Solver operation failed.
type Kind int

const (
	// KindNonManifold: the input mesh has an edge shared by more than
	// two triangles.
	KindNonManifold Kind = iota
	// KindEmptyMesh: the input mesh has too few vertices or triangles.
	KindEmptyMesh
	// KindIllConditioned: L_ff failed to factorize as SPD, typically
	// because the anchor set is empty or disconnects the mesh.
	KindIllConditioned
	// KindNotConfigured: Deform was called before SetAnchors, or after
	// a SetAnchors call that failed.
	KindNotConfigured
	// KindNumericalFailure: the local or global step produced a
	// non-finite value mid-iteration.
	KindNumericalFailure
)

func (k Kind) String() string {
	switch k {
	case KindNonManifold:
		return "non-manifold mesh"
	case KindEmptyMesh:
		return "empty mesh"
	case KindIllConditioned:
		return "ill-conditioned system"
	case KindNotConfigured:
		return "solver not configured"
	case KindNumericalFailure:
		return "numerical failure"
	default:
		return "unknown error"
	}
}

// Error is the typed error returned by every Solver method. It wraps
// an optional underlying cause while exposing a stable Kind that
// callers can switch on or match with errors.Is against one of the
// package-level sentinels below.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deform: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("deform: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, ignoring
// the wrapped cause -- this lets callers write errors.Is(err,
// deform.ErrIllConditioned) without caring what tripped it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel values for errors.Is matching; their Err field is always
// nil and is not part of the comparison.
var (
	ErrNonManifold      = &Error{Kind: KindNonManifold}
	ErrEmptyMesh        = &Error{Kind: KindEmptyMesh}
	ErrIllConditioned   = &Error{Kind: KindIllConditioned}
	ErrNotConfigured    = &Error{Kind: KindNotConfigured}
	ErrNumericalFailure = &Error{Kind: KindNumericalFailure}
)

// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rotfit

import (
	"math"
	"testing"

	"github.com/cpmech/arapdeform/cotan"
	"github.com/cpmech/arapdeform/mesh"
	"github.com/cpmech/gosl/chk"
)

func tetra() (*mesh.Mesh, *cotan.Weights) {
	v := []mesh.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	f := [][3]int{
		{0, 2, 1},
		{0, 1, 3},
		{0, 3, 2},
		{1, 2, 3},
	}
	m, err := mesh.Build(v, f)
	if err != nil {
		panic(err)
	}
	return m, cotan.Build(m, cotan.Options{})
}

func Test_rotfit01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rotfit01. identity deformation gives identity rotations")

	m, w := tetra()
	rot := make([]mesh.Mat3, m.N())
	Fit(m, w, m.VRest, rot, Options{})

	for i, r := range rot {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				want := 0.0
				if a == b {
					want = 1.0
				}
				chk.Scalar(tst, "R", 1e-9, r[a][b], want)
				_ = i
			}
		}
	}
}

func Test_rotfit02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rotfit02. every fitted rotation is proper orthogonal")

	m, w := tetra()
	vcur := make([]mesh.Vec3, m.N())
	copy(vcur, m.VRest)
	// perturb vertex 3 to force a non-trivial local fit
	vcur[3] = mesh.Vec3{0.2, -0.1, 1.3}

	rot := make([]mesh.Mat3, m.N())
	Fit(m, w, vcur, rot, Options{})

	for _, r := range rot {
		d := det3(r)
		if math.Abs(d-1) > 1e-6 {
			tst.Errorf("det(R) failed: got %g, want 1", d)
		}
		// R R^T = I
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				sum := 0.0
				for k := 0; k < 3; k++ {
					sum += r[a][k] * r[b][k]
				}
				want := 0.0
				if a == b {
					want = 1.0
				}
				if math.Abs(sum-want) > 1e-5 {
					tst.Errorf("R R^T != I at (%d,%d): got %g, want %g", a, b, sum, want)
				}
			}
		}
	}
}

func Test_rotfit03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rotfit03. planar one-ring (degenerate S_i) defaults to identity")

	v := []mesh.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	f := [][3]int{{0, 1, 2}}
	m, err := mesh.Build(v, f)
	if err != nil {
		tst.Errorf("Build failed:\n%v", err)
		return
	}
	w := cotan.Build(m, cotan.Options{})
	rot := make([]mesh.Mat3, m.N())
	Fit(m, w, v, rot, Options{})
	for i, r := range rot {
		if r != mesh.Identity3() {
			tst.Errorf("vertex %d: expected identity rotation, got %+v", i, r)
		}
	}
}

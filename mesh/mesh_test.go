// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func tetra() ([]Vec3, [][3]int) {
	v := []Vec3{
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
	return v, f
}

func Test_mesh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh01. tetrahedron topology")

	v, f := tetra()
	m, err := Build(v, f)
	if err != nil {
		tst.Errorf("Build failed:\n%v", err)
		return
	}
	if m.N() != 4 {
		tst.Errorf("N failed: got %d, want 4", m.N())
	}

	// every vertex of a tetrahedron is adjacent to the other three
	for i := 0; i < 4; i++ {
		ring := m.Ring(i)
		if len(ring) != 3 {
			tst.Errorf("Ring(%d) failed: got %d neighbours, want 3", i, len(ring))
		}
	}

	// ring symmetry: j in ring(i) <=> i in ring(j)
	for i := 0; i < 4; i++ {
		for _, j := range m.Ring(i) {
			found := false
			for _, k := range m.Ring(j) {
				if k == i {
					found = true
				}
			}
			if !found {
				tst.Errorf("ring asymmetry: %d in ring(%d) but %d not in ring(%d)", j, i, i, j)
			}
		}
	}

	// an internal tetrahedron edge has exactly two incident triangles
	et, ok := m.EdgeTriangles(0, 1)
	if !ok {
		tst.Errorf("EdgeTriangles(0,1) failed: edge not found")
	}
	if et.T0 < 0 || et.T1 < 0 {
		tst.Errorf("EdgeTriangles(0,1) failed: expected two incident triangles, got %+v", et)
	}
}

func Test_mesh02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh02. non-manifold bowtie is rejected")

	// three triangles sharing the edge (0,1): a bowtie
	v := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}}
	f := [][3]int{
		{0, 1, 2},
		{0, 1, 3},
		{0, 1, 4},
	}
	_, err := Build(v, f)
	if err == nil {
		tst.Errorf("Build should have failed on a non-manifold bowtie")
		return
	}
	var nerr *NErr
	if !errors.As(err, &nerr) {
		tst.Errorf("Build returned wrong error type: %T (%v)", err, err)
	}
}

func Test_mesh03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh03. empty mesh is rejected")

	_, err := Build(nil, nil)
	if err == nil {
		tst.Errorf("Build should have failed on an empty mesh")
		return
	}
	var eerr *EmptyErr
	if !errors.As(err, &eerr) {
		tst.Errorf("Build returned wrong error type: %T (%v)", err, err)
	}
}

func Test_mesh04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh04. boundary edge has a single incident triangle")

	v, f := tetra()
	// drop one face to create a boundary edge
	m, err := Build(v, f[:3])
	if err != nil {
		tst.Errorf("Build failed:\n%v", err)
		return
	}
	et, ok := m.EdgeTriangles(1, 2)
	if !ok {
		tst.Errorf("EdgeTriangles(1,2) failed: edge not found")
		return
	}
	if et.T1 != -1 {
		tst.Errorf("EdgeTriangles(1,2) failed: expected boundary edge (T1=-1), got %+v", et)
	}
}

// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"testing"

	"github.com/cpmech/arapdeform/cotan"
	"github.com/cpmech/arapdeform/laplace"
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

func Test_solve01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solve01. identity rotations and rest anchors reproduce the rest pose")

	m, w := tetra()
	fz, err := laplace.Reduce(w, map[int]bool{0: true})
	if err != nil {
		tst.Errorf("Reduce failed:\n%v", err)
		return
	}
	defer fz.Free()

	rot := make([]mesh.Mat3, m.N())
	for i := range rot {
		rot[i] = mesh.Identity3()
	}

	vcur := make([]mesh.Vec3, m.N())
	copy(vcur, m.VRest)
	anchors := map[int]mesh.Vec3{0: m.VRest[0]}

	sc := NewScratch(fz.NFree())
	if err := Step(m, w, fz, rot, vcur, anchors, sc); err != nil {
		tst.Errorf("Step failed:\n%v", err)
		return
	}

	for i := 0; i < m.N(); i++ {
		chk.Vector(tst, "vcur", 1e-9, vcur[i][:], m.VRest[i][:])
	}
}

func Test_solve02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solve02. anchor rows are never written by Step")

	m, w := tetra()
	fz, err := laplace.Reduce(w, map[int]bool{0: true, 1: true})
	if err != nil {
		tst.Errorf("Reduce failed:\n%v", err)
		return
	}
	defer fz.Free()

	rot := make([]mesh.Mat3, m.N())
	for i := range rot {
		rot[i] = mesh.Identity3()
	}

	vcur := make([]mesh.Vec3, m.N())
	copy(vcur, m.VRest)
	target0 := mesh.Vec3{5, 5, 5}
	target1 := mesh.Vec3{-1, -1, -1}
	vcur[0], vcur[1] = target0, target1
	anchors := map[int]mesh.Vec3{0: target0, 1: target1}

	sc := NewScratch(fz.NFree())
	if err := Step(m, w, fz, rot, vcur, anchors, sc); err != nil {
		tst.Errorf("Step failed:\n%v", err)
		return
	}

	chk.Vector(tst, "vcur[0]", 1e-15, vcur[0][:], target0[:])
	chk.Vector(tst, "vcur[1]", 1e-15, vcur[1][:], target1[:])
}

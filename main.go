// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"github.com/cpmech/arapdeform/deform"
	"github.com/cpmech/arapdeform/mesh"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// meshFile is the on-disk JSON representation of a rest-pose mesh.
type meshFile struct {
	Vertices [][3]float64 `json:"vertices"`
	Faces    [][3]int     `json:"faces"`
}

// anchorsFile maps anchored vertex indices, as decimal strings, to
// their target positions.
type anchorsFile struct {
	Anchors map[string][3]float64 `json:"anchors"`
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	meshfn, _ := io.ArgToFilename(0, "mesh.json", ".json", true)
	anchorsfn, _ := io.ArgToFilename(1, "anchors.json", ".json", true)
	maxIters := io.ArgToInt(2, 100)
	atol := io.ArgToFloat(3, 1e-4)
	btol := io.ArgToFloat(4, 1e-2)

	io.PfWhite("\narapdeform -- As-Rigid-As-Possible surface deformation\n\n")
	io.Pf("%v\n", io.ArgsTable(
		"mesh filename", "meshfn", meshfn,
		"anchors filename", "anchorsfn", anchorsfn,
		"max iterations", "maxIters", maxIters,
		"absolute tolerance", "atol", atol,
		"bound tolerance", "btol", btol,
	))

	// read mesh
	meshBytes, err := os.ReadFile(meshfn)
	if err != nil {
		chk.Panic("cannot read mesh file %q: %v", meshfn, err)
	}
	var mf meshFile
	if err := json.Unmarshal(meshBytes, &mf); err != nil {
		chk.Panic("cannot parse mesh file %q: %v", meshfn, err)
	}
	vrest := make([]mesh.Vec3, len(mf.Vertices))
	for i, p := range mf.Vertices {
		vrest[i] = mesh.Vec3(p)
	}

	// read anchors
	anchorsBytes, err := os.ReadFile(anchorsfn)
	if err != nil {
		chk.Panic("cannot read anchors file %q: %v", anchorsfn, err)
	}
	var af anchorsFile
	if err := json.Unmarshal(anchorsBytes, &af); err != nil {
		chk.Panic("cannot parse anchors file %q: %v", anchorsfn, err)
	}
	anchorIdx := make([]int, 0, len(af.Anchors))
	targets := make(map[int]mesh.Vec3, len(af.Anchors))
	for key, p := range af.Anchors {
		idx, err := strconv.Atoi(key)
		if err != nil {
			chk.Panic("anchors file %q: invalid vertex index %q", anchorsfn, key)
		}
		anchorIdx = append(anchorIdx, idx)
		targets[idx] = mesh.Vec3(p)
	}
	sort.Ints(anchorIdx)

	// build and run the solver
	cfg := deform.Config{MaxIters: maxIters, Atol: atol, Btol: btol}
	solver, err := deform.New(vrest, mf.Faces, cfg)
	if err != nil {
		chk.Panic("%v", err)
	}
	if err := solver.SetAnchors(anchorIdx); err != nil {
		chk.Panic("%v", err)
	}
	out, err := solver.Deform(context.Background(), targets)
	if err != nil {
		chk.Panic("%v", err)
	}

	io.Pf("\ndeformed vertex positions:\n")
	for i, p := range out {
		io.Pf("  %4d : (%23.15e, %23.15e, %23.15e)\n", i, p[0], p[1], p[2])
	}
}

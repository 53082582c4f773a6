// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"encoding/json"
	"math"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// meshFile mirrors the root package's JSON mesh format.
type meshFile struct {
	Vertices [][3]float64 `json:"vertices"`
	Faces    [][3]int     `json:"faces"`
}

// icosahedron returns the standard 12-vertex, 20-triangle regular
// icosahedron scaled to circumradius r. Vertex i and vertex i^3's
// antipode pairing follows the golden-rectangle construction; see the
// shell edge set built by lvlath/builder.PlatonicSolid for the same
// adjacency -- that constructor is topology-only (no coordinates or
// triangulation), so the geometry is generated directly here instead.
func icosahedron(r float64) ([][3]float64, [][3]int) {
	phi := (1 + math.Sqrt(5)) / 2
	raw := [][3]float64{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	scale := r / math.Sqrt(1+phi*phi)
	v := make([][3]float64, len(raw))
	for i, p := range raw {
		v[i] = [3]float64{p[0] * scale, p[1] * scale, p[2] * scale}
	}
	f := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return v, f
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// input data
	outfn, _ := io.ArgToFilename(0, "icosahedron", ".json", false)
	radius := io.ArgToFloat(1, 1.0)
	io.Pf("\n%s\n", io.ArgsTable(
		"output filename", "outfn", outfn,
		"circumradius", "radius", radius,
	))

	v, f := icosahedron(radius)
	mf := meshFile{Vertices: v, Faces: f}
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		chk.Panic("cannot encode mesh: %v", err)
	}
	if err := os.WriteFile(outfn, data, 0644); err != nil {
		chk.Panic("cannot write %q: %v", outfn, err)
	}
	io.Pf("file <%s> written\n", outfn)
}

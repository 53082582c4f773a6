// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mesh holds the rest-pose triangle mesh and the topology
// derived from it: one-ring neighbours, edge-to-triangle incidence,
// and opposite-vertex lookups used by the cotangent weight builder.
package mesh

import (
	"fmt"
	"math"
	"strconv"

	"github.com/katalvlaran/lvlath/core"
)

// Vec3 is a point or vector in 3D space, stored by value to avoid
// per-vertex heap allocation.
type Vec3 [3]float64

// Sub returns a-b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Add returns a+b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Scale returns a*s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a[0] * s, a[1] * s, a[2] * s}
}

// SubScaled returns a - b*s.
func (a Vec3) SubScaled(s float64, b Vec3) Vec3 {
	return Vec3{a[0] - s*b[0], a[1] - s*b[1], a[2] - s*b[2]}
}

// Dot returns the dot product a.b.
func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns the cross product a x b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns the Euclidean length of a.
func (a Vec3) Norm() float64 {
	return math.Sqrt(a.Dot(a))
}

// Mat3 is a row-major 3x3 matrix, stored by value.
type Mat3 [3][3]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Add returns a+b, element-wise.
func (a Mat3) Add(b Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i][j] + b[i][j]
		}
	}
	return r
}

// MulVec returns a*v.
func (a Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		a[0][0]*v[0] + a[0][1]*v[1] + a[0][2]*v[2],
		a[1][0]*v[0] + a[1][1]*v[1] + a[1][2]*v[2],
		a[2][0]*v[0] + a[2][1]*v[1] + a[2][2]*v[2],
	}
}

// Edge is an undirected mesh edge, canonicalised so Lo < Hi.
type Edge struct {
	Lo, Hi int
}

// NewEdge returns the canonical Edge for vertices a and b.
func NewEdge(a, b int) Edge {
	if a < b {
		return Edge{a, b}
	}
	return Edge{b, a}
}

// EdgeTri records the one or two triangles incident to an edge, -1
// meaning "no second triangle" (boundary edge).
type EdgeTri struct {
	T0, T1 int
}

// Mesh holds the rest-pose vertex positions, triangle list, and the
// topology derived from them. Mesh is immutable after Build returns.
type Mesh struct {
	VRest []Vec3  // rest-pose vertex positions, length N
	Faces [][3]int // triangle vertex indices, length M

	graph     *core.Graph       // one-ring adjacency, vertex IDs are strconv.Itoa(index)
	edgeTris  map[Edge]*EdgeTri // undirected edge -> incident triangles
	opposite  map[Edge][2]int   // undirected edge -> opposite vertex in T0 (and T1, or -1)
}

// NErr is a non-manifold mesh error: more than two triangles share an edge.
type NErr struct {
	Edge Edge
}

func (e *NErr) Error() string {
	return fmt.Sprintf("mesh: edge (%d,%d) is shared by more than two triangles (non-manifold)", e.Edge.Lo, e.Edge.Hi)
}

// EmptyErr is returned when the input mesh has too few vertices or
// triangles to be meaningful.
type EmptyErr struct {
	NVerts, NFaces int
}

func (e *EmptyErr) Error() string {
	return fmt.Sprintf("mesh: empty or degenerate input (nverts=%d, nfaces=%d)", e.NVerts, e.NFaces)
}

// Build constructs a Mesh from rest-pose vertices and a triangle list.
// It makes one pass over faces, inserting the three directed edges of
// each triangle into an undirected edge->triangle map and adding the
// cross one-ring entries. A third triangle incident to the same edge
// is reported via NErr.
func Build(vrest []Vec3, faces [][3]int) (*Mesh, error) {
	if len(vrest) < 3 || len(faces) < 1 {
		return nil, &EmptyErr{len(vrest), len(faces)}
	}

	g := core.NewGraph()
	for i := range vrest {
		if err := g.AddVertex(strconv.Itoa(i)); err != nil {
			return nil, fmt.Errorf("mesh: AddVertex(%d): %w", i, err)
		}
	}

	edgeTris := make(map[Edge]*EdgeTri, len(faces)*3)
	opposite := make(map[Edge][2]int, len(faces)*3)

	addEdge := func(a, b int) error {
		if !g.HasEdge(strconv.Itoa(a), strconv.Itoa(b)) {
			if _, err := g.AddEdge(strconv.Itoa(a), strconv.Itoa(b), 0); err != nil {
				return fmt.Errorf("mesh: AddEdge(%d,%d): %w", a, b, err)
			}
		}
		return nil
	}

	for t, f := range faces {
		v0, v1, v2 := f[0], f[1], f[2]
		tri := [3][2]int{{v0, v1}, {v1, v2}, {v2, v0}}
		opp := [3]int{v2, v0, v1}
		for k, pair := range tri {
			a, b := pair[0], pair[1]
			if err := addEdge(a, b); err != nil {
				return nil, err
			}
			e := NewEdge(a, b)
			et, ok := edgeTris[e]
			if !ok {
				edgeTris[e] = &EdgeTri{T0: t, T1: -1}
				opposite[e] = [2]int{opp[k], -1}
				continue
			}
			if et.T1 != -1 {
				return nil, &NErr{e}
			}
			et.T1 = t
			ov := opposite[e]
			ov[1] = opp[k]
			opposite[e] = ov
		}
	}

	return &Mesh{
		VRest:    vrest,
		Faces:    faces,
		graph:    g,
		edgeTris: edgeTris,
		opposite: opposite,
	}, nil
}

// N returns the number of vertices.
func (m *Mesh) N() int { return len(m.VRest) }

// Ring returns the one-ring neighbours of vertex i, sorted by index.
func (m *Mesh) Ring(i int) []int {
	ids, err := m.graph.NeighborIDs(strconv.Itoa(i))
	if err != nil {
		return nil
	}
	out := make([]int, len(ids))
	for k, id := range ids {
		n, _ := strconv.Atoi(id)
		out[k] = n
	}
	return out
}

// EdgeTriangles returns the one or two triangles incident to the
// undirected edge {a,b}, and whether that edge exists in the mesh.
func (m *Mesh) EdgeTriangles(a, b int) (EdgeTri, bool) {
	et, ok := m.edgeTris[NewEdge(a, b)]
	if !ok {
		return EdgeTri{}, false
	}
	return *et, true
}

// Opposite returns the vertex opposite edge {a,b} in its first
// incident triangle, and in its second incident triangle if any
// (-1 otherwise).
func (m *Mesh) Opposite(a, b int) (v0, v1 int, ok bool) {
	ov, found := m.opposite[NewEdge(a, b)]
	if !found {
		return 0, 0, false
	}
	return ov[0], ov[1], true
}

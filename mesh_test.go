/*
Copyright © 2026 the surftrim authors.
This file is part of surftrim.

surftrim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

surftrim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with surftrim.  If not, see <http://www.gnu.org/licenses/>.
*/

package surftrim

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
)

func squareRing(lo, hi float64) []geom.Point {
	return []geom.Point{
		{X: lo, Y: lo}, {X: hi, Y: lo}, {X: hi, Y: hi}, {X: lo, Y: hi}, {X: lo, Y: lo},
	}
}

func TestTessellateFullSquare(t *testing.T) {
	r := &Region{UV: geom.Polygon{squareRing(0, 1)}, surface: UnitSquare()}
	m := TessellateRegion(r, 8)
	if got, want := m.TriangleCount(), 2*8*8; got != want {
		t.Errorf("triangle count = %d, want %d", got, want)
	}
	if got, want := m.VertexCount(), 9*9; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	// The unit square in the XY plane has normal +Z everywhere.
	for i := 0; i < len(m.Normals); i += 3 {
		nz := float64(m.Normals[i+2])
		if different(nz, 1, testTolerance) {
			t.Fatalf("normal %d = (%g, %g, %g), want (0, 0, 1)", i/3,
				m.Normals[i], m.Normals[i+1], m.Normals[i+2])
		}
	}
}

// Cells whose centers fall in a hole must not emit triangles.
func TestTessellateHole(t *testing.T) {
	r := &Region{
		UV:      geom.Polygon{squareRing(0, 1), squareRing(0.25, 0.75)},
		surface: UnitSquare(),
	}
	m := TessellateRegion(r, 8)
	// 64 cells minus the 16 whose centers are inside the hole.
	if got, want := m.TriangleCount(), 2*(64-16); got != want {
		t.Errorf("triangle count = %d, want %d", got, want)
	}
}

func TestTessellateDegenerateRegion(t *testing.T) {
	r := &Region{
		UV:      geom.Polygon{{{X: 0, Y: 0.5}, {X: 1, Y: 0.5}, {X: 0, Y: 0.5}}},
		surface: UnitSquare(),
	}
	m := TessellateRegion(r, 8)
	if !m.IsEmpty() {
		t.Errorf("zero-height region produced %d triangles", m.TriangleCount())
	}
}

func TestMeshAppend(t *testing.T) {
	r := &Region{UV: geom.Polygon{squareRing(0, 1)}, surface: UnitSquare()}
	a := TessellateRegion(r, 2)
	b := TessellateRegion(r, 2)
	nVerts, nTris := a.VertexCount(), a.TriangleCount()
	a.append(b)
	if a.VertexCount() != 2*nVerts || a.TriangleCount() != 2*nTris {
		t.Fatalf("merged mesh has %d vertices and %d triangles, want %d and %d",
			a.VertexCount(), a.TriangleCount(), 2*nVerts, 2*nTris)
	}
	// Appended indices must be offset past the original vertices.
	min := uint32(math.MaxUint32)
	for _, idx := range a.Indices[3*nTris:] {
		if idx < min {
			min = idx
		}
	}
	if min != uint32(nVerts) {
		t.Errorf("appended indices start at %d, want %d", min, nVerts)
	}
}

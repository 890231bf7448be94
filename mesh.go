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
	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// A Mesh is a triangle mesh suitable for rendering. All arrays are flat:
// Vertices and Normals hold 3 floats per vertex, Indices holds 3 entries
// per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// append merges other into m, offsetting its indices.
func (m *Mesh) append(other *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, other.Vertices...)
	m.Normals = append(m.Normals, other.Normals...)
	for _, i := range other.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// defaultMeshResolution is the per-axis grid resolution used when
// tessellating a region for preview.
const defaultMeshResolution = 64

// TessellateRegion converts a region into a triangle mesh by overlaying a
// resolution×resolution grid on the region's parameter-space bounds,
// keeping the cells whose centers fall inside the region, and mapping the
// cell corners through the surface. Holes are handled for free by the
// cell-center test. The mesh approximates the region to within one grid
// cell; resolution values below 2 select the default.
func TessellateRegion(r *Region, resolution int) *Mesh {
	if resolution < 2 {
		resolution = defaultMeshResolution
	}
	b := r.Bounds()
	du := (b.Max.X - b.Min.X) / float64(resolution)
	dv := (b.Max.Y - b.Min.Y) / float64(resolution)
	if du == 0 || dv == 0 {
		return &Mesh{}
	}

	mesh := &Mesh{}
	// Vertex grid is (resolution+1)² but only cells in the region emit
	// triangles; vertices are deduplicated through the index map.
	vertIndex := make(map[[2]int]uint32)
	vertex := func(i, j int) uint32 {
		key := [2]int{i, j}
		if idx, ok := vertIndex[key]; ok {
			return idx
		}
		u := b.Min.X + float64(i)*du
		v := b.Min.Y + float64(j)*dv
		p := r.surface.Evaluate(u, v)
		n := surfaceNormal(r.surface, u, v, du, dv)
		idx := uint32(mesh.VertexCount())
		mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		mesh.Normals = append(mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		vertIndex[key] = idx
		return idx
	}

	for i := 0; i < resolution; i++ {
		for j := 0; j < resolution; j++ {
			cu := b.Min.X + (float64(i)+0.5)*du
			cv := b.Min.Y + (float64(j)+0.5)*dv
			if (geom.Point{X: cu, Y: cv}).Within(r.UV) == geom.Outside {
				continue
			}
			v00 := vertex(i, j)
			v10 := vertex(i+1, j)
			v01 := vertex(i, j+1)
			v11 := vertex(i+1, j+1)
			mesh.Indices = append(mesh.Indices, v00, v10, v11, v00, v11, v01)
		}
	}
	return mesh
}

// surfaceNormal estimates the unit surface normal at (u,v) from
// finite-difference tangents.
func surfaceNormal(s Surface, u, v, du, dv float64) r3.Vec {
	tu := r3.Sub(s.Evaluate(u+du, v), s.Evaluate(u-du, v))
	tv := r3.Sub(s.Evaluate(u, v+dv), s.Evaluate(u, v-dv))
	n := r3.Cross(tu, tv)
	if r3.Norm(n) < 1e-12 {
		return r3.Vec{Z: 1}
	}
	return r3.Unit(n)
}

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
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Built-in Surface implementations. A real deployment hands the engine
// surfaces backed by an external geometry kernel; these analytic patches
// serve the command-line tools and exercise the engine without one. Both
// honor the kernel contract that ApproxParameter clamps to the domain,
// the limitation the projector exists to work around.

// A PlaneSurface is a planar patch: Origin + u·UAxis + v·VAxis over a
// rectangular (u,v) domain. The axes need not be orthogonal or unit
// length.
type PlaneSurface struct {
	Origin       r3.Vec
	UAxis, VAxis r3.Vec
	Dom          *geom.Bounds
}

var _ Surface = (*PlaneSurface)(nil)

// UnitSquare returns the planar patch spanning [0,1]×[0,1] in the XY
// plane.
func UnitSquare() *PlaneSurface {
	return &PlaneSurface{
		UAxis: r3.Vec{X: 1},
		VAxis: r3.Vec{Y: 1},
		Dom:   &geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 1, Y: 1}},
	}
}

// Evaluate returns Origin + u·UAxis + v·VAxis.
func (s *PlaneSurface) Evaluate(u, v float64) r3.Vec {
	return r3.Add(s.Origin, r3.Add(r3.Scale(u, s.UAxis), r3.Scale(v, s.VAxis)))
}

// ApproxParameter inverts the plane mapping by least squares and clamps
// the result to the domain.
func (s *PlaneSurface) ApproxParameter(p r3.Vec) (u, v float64) {
	// Solve [UAxis VAxis]·(u,v) = p − Origin in the least-squares sense.
	d := r3.Sub(p, s.Origin)
	a11 := r3.Dot(s.UAxis, s.UAxis)
	a12 := r3.Dot(s.UAxis, s.VAxis)
	a22 := r3.Dot(s.VAxis, s.VAxis)
	b1 := r3.Dot(s.UAxis, d)
	b2 := r3.Dot(s.VAxis, d)
	det := a11*a22 - a12*a12
	if math.Abs(det) < 1e-15 {
		return clampToBounds(0, 0, s.Dom)
	}
	u = (a22*b1 - a12*b2) / det
	v = (a11*b2 - a12*b1) / det
	return clampToBounds(u, v, s.Dom)
}

// Domain returns the declared (u,v) rectangle.
func (s *PlaneSurface) Domain() *geom.Bounds { return s.Dom }

// Diagonal returns the bounding-box diagonal of the patch corners.
func (s *PlaneSurface) Diagonal() float64 {
	return cornerDiagonal(s)
}

// Identity returns a stable identity for caching.
func (s *PlaneSurface) Identity() string {
	return fmt.Sprintf("plane(%v,%v,%v,%v,%v)", s.Origin, s.UAxis, s.VAxis, s.Dom.Min, s.Dom.Max)
}

// A BilinearSurface interpolates four corner points, giving a doubly ruled
// patch that is genuinely curved whenever the corners are non-coplanar.
// It exercises the projector's iterative path, which a plane never does.
type BilinearSurface struct {
	P00, P10, P01, P11 r3.Vec // corners at (u,v) = (0,0), (1,0), (0,1), (1,1)
	Dom                *geom.Bounds
}

var _ Surface = (*BilinearSurface)(nil)

// Evaluate bilinearly interpolates the corners. The corner parameters are
// the corners of the domain rectangle; evaluation outside the domain
// extrapolates.
func (s *BilinearSurface) Evaluate(u, v float64) r3.Vec {
	fu := (u - s.Dom.Min.X) / (s.Dom.Max.X - s.Dom.Min.X)
	fv := (v - s.Dom.Min.Y) / (s.Dom.Max.Y - s.Dom.Min.Y)
	bottom := r3.Add(r3.Scale(1-fu, s.P00), r3.Scale(fu, s.P10))
	top := r3.Add(r3.Scale(1-fu, s.P01), r3.Scale(fu, s.P11))
	return r3.Add(r3.Scale(1-fv, bottom), r3.Scale(fv, top))
}

// ApproxParameter finds the closest surface point by damped Newton
// iteration from the domain center and clamps the result, matching the
// clamping behavior of kernel inverse mappings.
func (s *BilinearSurface) ApproxParameter(p r3.Vec) (u, v float64) {
	u = (s.Dom.Min.X + s.Dom.Max.X) / 2
	v = (s.Dom.Min.Y + s.Dom.Max.Y) / 2
	du := (s.Dom.Max.X - s.Dom.Min.X) * fdStepFraction
	dv := (s.Dom.Max.Y - s.Dom.Min.Y) * fdStepFraction
	for i := 0; i < 25; i++ {
		r := r3.Sub(p, s.Evaluate(u, v))
		tu := r3.Scale(1/(2*du), r3.Sub(s.Evaluate(u+du, v), s.Evaluate(u-du, v)))
		tv := r3.Scale(1/(2*dv), r3.Sub(s.Evaluate(u, v+dv), s.Evaluate(u, v-dv)))
		a11 := r3.Dot(tu, tu)
		a12 := r3.Dot(tu, tv)
		a22 := r3.Dot(tv, tv)
		det := a11*a22 - a12*a12
		if math.Abs(det) < 1e-15 {
			break
		}
		b1 := r3.Dot(tu, r)
		b2 := r3.Dot(tv, r)
		stepU := (a22*b1 - a12*b2) / det
		stepV := (a11*b2 - a12*b1) / det
		u += stepU * 0.8
		v += stepV * 0.8
		if math.Abs(stepU) < 1e-12 && math.Abs(stepV) < 1e-12 {
			break
		}
	}
	return clampToBounds(u, v, s.Dom)
}

// Domain returns the declared (u,v) rectangle.
func (s *BilinearSurface) Domain() *geom.Bounds { return s.Dom }

// Diagonal returns the bounding-box diagonal of the patch corners.
func (s *BilinearSurface) Diagonal() float64 {
	return cornerDiagonal(s)
}

// Identity returns a stable identity for caching.
func (s *BilinearSurface) Identity() string {
	return fmt.Sprintf("bilinear(%v,%v,%v,%v,%v,%v)", s.P00, s.P10, s.P01, s.P11, s.Dom.Min, s.Dom.Max)
}

// clampToBounds clamps (u,v) to the rectangle b.
func clampToBounds(u, v float64, b *geom.Bounds) (float64, float64) {
	return math.Min(math.Max(u, b.Min.X), b.Max.X),
		math.Min(math.Max(v, b.Min.Y), b.Max.Y)
}

// cornerDiagonal returns the 3-D bounding-box diagonal of the surface's
// domain corners.
func cornerDiagonal(s Surface) float64 {
	d := s.Domain()
	var box box3
	box.extend(s.Evaluate(d.Min.X, d.Min.Y))
	box.extend(s.Evaluate(d.Max.X, d.Min.Y))
	box.extend(s.Evaluate(d.Min.X, d.Max.Y))
	box.extend(s.Evaluate(d.Max.X, d.Max.Y))
	return box.diagonal()
}

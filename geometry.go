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

// Package surftrim trims parametric surface patches with projected curves.
// A set of cutting curves is projected onto a target surface along a
// direction, the surface is split along the projections, and a single
// sub-region is selected with a user-supplied point. The numerical core
// (unclamped line/surface projection, coverage analysis, curve extension,
// boolean splitting and region selection) lives in this package;
// visualization and interaction are left to callers.
package surftrim

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Version gives the version number.
const Version = "0.1.0"

// A Surface is a parametric 2-D patch embedded in 3-D space, addressed by
// (u,v) coordinates within a bounded domain. Surfaces are owned by the
// geometry kernel that created them and are never mutated here.
type Surface interface {
	// Evaluate returns the 3-D point at surface parameters (u, v). The
	// parameters are not restricted to the declared domain: evaluation
	// outside the domain extends the underlying geometry.
	Evaluate(u, v float64) r3.Vec

	// ApproxParameter returns the surface parameters of the point on the
	// surface closest to p. The result is clamped to Domain; callers that
	// need parameters outside the visible patch must solve for them
	// themselves (see Projector).
	ApproxParameter(p r3.Vec) (u, v float64)

	// Domain returns the rectangular (u,v) range considered "on" the
	// visible surface.
	Domain() *geom.Bounds

	// Diagonal returns the length of the diagonal of the surface's 3-D
	// bounding box, used for scale estimates.
	Diagonal() float64
}

// A Curve is a parametric 3-D curve used as a cutting tool.
type Curve interface {
	// Evaluate returns the 3-D point at curve parameter t.
	Evaluate(t float64) r3.Vec

	// Range returns the curve's parameter range.
	Range() (t0, t1 float64)

	// Discretize returns n points along the curve, ordered from the start
	// of the parameter range to the end, endpoints included.
	Discretize(n int) []r3.Vec

	// Length returns the arc length of the curve.
	Length() float64
}

// An Identifier reports a stable identity string for a piece of geometry.
// Surfaces and curves that implement it can participate in split-result
// caching; geometry without an identity is cached by object address, which
// is stable only within a single process.
type Identifier interface {
	Identity() string
}

// ErrZeroDirection is returned when a projection direction with zero length
// is supplied. A zero direction is an input error, never silently coerced.
var ErrZeroDirection = errors.New("surftrim: projection direction has zero length")

// normalizeDirection returns dir scaled to unit length, or ErrZeroDirection
// if its length is too small to normalize reliably.
func normalizeDirection(dir r3.Vec) (r3.Vec, error) {
	n := r3.Norm(dir)
	if n < 1e-12 {
		return r3.Vec{}, ErrZeroDirection
	}
	return r3.Scale(1/n, dir), nil
}

// identity returns the cache identity for a surface or curve.
func identity(g interface{}) string {
	if id, ok := g.(Identifier); ok {
		return id.Identity()
	}
	return fmt.Sprintf("%p", g)
}

// boundsDiagonal returns the diagonal length of b.
func boundsDiagonal(b *geom.Bounds) float64 {
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	return math.Hypot(dx, dy)
}

// box3 is a 3-D axis-aligned bounding box accumulator.
type box3 struct {
	min, max r3.Vec
	set      bool
}

func (b *box3) extend(p r3.Vec) {
	if !b.set {
		b.min, b.max = p, p
		b.set = true
		return
	}
	b.min.X = math.Min(b.min.X, p.X)
	b.min.Y = math.Min(b.min.Y, p.Y)
	b.min.Z = math.Min(b.min.Z, p.Z)
	b.max.X = math.Max(b.max.X, p.X)
	b.max.Y = math.Max(b.max.Y, p.Y)
	b.max.Z = math.Max(b.max.Z, p.Z)
}

func (b *box3) diagonal() float64 {
	if !b.set {
		return 0
	}
	return r3.Norm(r3.Sub(b.max, b.min))
}

// surfaceBoundaryPoints samples n points along each edge of the surface's
// domain rectangle, evaluated in 3-D. They stand in for boundary geometry
// when estimating the surface's spatial extent.
func surfaceBoundaryPoints(s Surface, n int) []r3.Vec {
	if n < 2 {
		n = 2
	}
	d := s.Domain()
	pts := make([]r3.Vec, 0, 4*n)
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		u := d.Min.X + f*(d.Max.X-d.Min.X)
		v := d.Min.Y + f*(d.Max.Y-d.Min.Y)
		pts = append(pts,
			s.Evaluate(u, d.Min.Y),
			s.Evaluate(u, d.Max.Y),
			s.Evaluate(d.Min.X, v),
			s.Evaluate(d.Max.X, v),
		)
	}
	return pts
}

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
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const testTolerance = 1e-3

func different(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

var down = r3.Vec{Z: -1}

func TestProjectPlane(t *testing.T) {
	pj := NewProjector(nil)
	s, err := pj.Project(r3.Vec{X: 0.3, Y: 0.7, Z: 5}, down, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	if different(s.U, 0.3, testTolerance) || different(s.V, 0.7, testTolerance) {
		t.Errorf("projected to (%g, %g), want (0.3, 0.7)", s.U, s.V)
	}
	if s.Residual > pj.Tol {
		t.Errorf("residual %g exceeds tolerance %g", s.Residual, pj.Tol)
	}
}

// Projections outside the visible patch must resolve to parameters outside
// the domain rectangle rather than clamping to its edge.
func TestProjectOutsideDomain(t *testing.T) {
	pj := NewProjector(nil)
	s, err := pj.Project(r3.Vec{X: 1.5, Y: 0.5, Z: 3}, down, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	if different(s.U, 1.5, testTolerance) || different(s.V, 0.5, testTolerance) {
		t.Errorf("projected to (%g, %g), want (1.5, 0.5)", s.U, s.V)
	}
}

func TestProjectDeterministic(t *testing.T) {
	pj := NewProjector(nil)
	point := r3.Vec{X: -0.4, Y: 0.2, Z: 2}
	s1, err := pj.Project(point, down, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	s2, err := pj.Project(point, down, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Errorf("repeated projection differs: %+v vs %+v", s1, s2)
	}
}

// The direction need not be normalized: scaling it must not change the
// result.
func TestProjectDirectionScale(t *testing.T) {
	pj := NewProjector(nil)
	point := r3.Vec{X: 0.6, Y: 0.1, Z: 4}
	s1, err := pj.Project(point, r3.Vec{Z: -1}, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	s2, err := pj.Project(point, r3.Vec{Z: -7}, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	if different(s1.U, s2.U, testTolerance) || different(s1.V, s2.V, testTolerance) {
		t.Errorf("scaled direction changed result: (%g, %g) vs (%g, %g)", s1.U, s1.V, s2.U, s2.V)
	}
}

func TestProjectZeroDirection(t *testing.T) {
	pj := NewProjector(nil)
	_, err := pj.Project(r3.Vec{X: 0.5, Y: 0.5, Z: 1}, r3.Vec{}, UnitSquare())
	if !errors.Is(err, ErrZeroDirection) {
		t.Errorf("want ErrZeroDirection, got %v", err)
	}
}

func TestProjectBilinear(t *testing.T) {
	surface := &BilinearSurface{
		P00: r3.Vec{},
		P10: r3.Vec{X: 1, Z: 0.3},
		P01: r3.Vec{Y: 1, Z: 0.2},
		P11: r3.Vec{X: 1, Y: 1},
		Dom: UnitSquare().Dom,
	}
	pj := NewProjector(nil)
	s, err := pj.Project(r3.Vec{X: 0.4, Y: 0.6, Z: 5}, down, surface)
	if err != nil {
		t.Fatal(err)
	}
	if s.Residual > pj.Tol {
		t.Errorf("residual %g exceeds tolerance %g", s.Residual, pj.Tol)
	}
	// The surface point must lie on the projection line.
	if different(s.Point.X, 0.4, testTolerance) || different(s.Point.Y, 0.6, testTolerance) {
		t.Errorf("surface point (%g, %g, %g) is off the projection line",
			s.Point.X, s.Point.Y, s.Point.Z)
	}
}

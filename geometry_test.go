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

func TestNormalizeDirection(t *testing.T) {
	got, err := normalizeDirection(r3.Vec{Z: -7})
	if err != nil {
		t.Fatal(err)
	}
	if different(r3.Norm(got), 1, testTolerance) || got.Z >= 0 {
		t.Errorf("normalized direction = %v, want (0, 0, -1)", got)
	}
	if _, err := normalizeDirection(r3.Vec{}); !errors.Is(err, ErrZeroDirection) {
		t.Errorf("want ErrZeroDirection, got %v", err)
	}
}

func TestPlaneApproxParameterClamps(t *testing.T) {
	s := UnitSquare()
	u, v := s.ApproxParameter(r3.Vec{X: 2, Y: 0.5, Z: 3})
	if different(u, 1, testTolerance) || different(v, 0.5, testTolerance) {
		t.Errorf("parameters = (%g, %g), want clamped (1, 0.5)", u, v)
	}
	u, v = s.ApproxParameter(r3.Vec{X: 0.3, Y: 0.7})
	if different(u, 0.3, testTolerance) || different(v, 0.7, testTolerance) {
		t.Errorf("parameters = (%g, %g), want (0.3, 0.7)", u, v)
	}
}

func TestBilinearEvaluate(t *testing.T) {
	s := &BilinearSurface{
		P00: r3.Vec{},
		P10: r3.Vec{X: 1, Z: 0.2},
		P01: r3.Vec{Y: 1, Z: 0.1},
		P11: r3.Vec{X: 1, Y: 1},
		Dom: UnitSquare().Dom,
	}
	corners := []struct {
		u, v float64
		want r3.Vec
	}{
		{0, 0, s.P00},
		{1, 0, s.P10},
		{0, 1, s.P01},
		{1, 1, s.P11},
	}
	for _, c := range corners {
		got := s.Evaluate(c.u, c.v)
		if r3.Norm(r3.Sub(got, c.want)) > testTolerance {
			t.Errorf("Evaluate(%g, %g) = %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestBilinearApproxParameter(t *testing.T) {
	s := &BilinearSurface{
		P00: r3.Vec{},
		P10: r3.Vec{X: 1, Z: 0.2},
		P01: r3.Vec{Y: 1, Z: 0.1},
		P11: r3.Vec{X: 1, Y: 1},
		Dom: UnitSquare().Dom,
	}
	p := s.Evaluate(0.3, 0.6)
	u, v := s.ApproxParameter(p)
	if different(u, 0.3, 0.01) || different(v, 0.6, 0.01) {
		t.Errorf("parameters = (%g, %g), want (0.3, 0.6)", u, v)
	}
}

func TestPolylineEvaluate(t *testing.T) {
	c := &PolylineCurve{Pts: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}}}
	if different(c.Length(), 2, testTolerance) {
		t.Errorf("length = %g, want 2", c.Length())
	}
	mid := c.Evaluate(0.5)
	if different(mid.X, 0.5, testTolerance) || different(mid.Y, 0, testTolerance) {
		t.Errorf("Evaluate(0.5) = %v, want (0.5, 0, 0)", mid)
	}
	turn := c.Evaluate(1.5)
	if different(turn.X, 1, testTolerance) || different(turn.Y, 0.5, testTolerance) {
		t.Errorf("Evaluate(1.5) = %v, want (1, 0.5, 0)", turn)
	}
}

func TestArcLength(t *testing.T) {
	quarter := &ArcCurve{XAxis: r3.Vec{X: 1}, YAxis: r3.Vec{Y: 1}, End: math.Pi / 2}
	if different(quarter.Length(), math.Pi/2, testTolerance) {
		t.Errorf("quarter-circle length = %g, want %g", quarter.Length(), math.Pi/2)
	}
	start := quarter.Evaluate(0)
	if different(start.X, 1, testTolerance) || different(start.Y, 0, testTolerance) {
		t.Errorf("arc start = %v, want (1, 0, 0)", start)
	}
}

func TestDiscretizeEndpoints(t *testing.T) {
	curves := []Curve{
		&LineCurve{P0: r3.Vec{X: -1}, P1: r3.Vec{X: 2}},
		&PolylineCurve{Pts: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}}},
		&ArcCurve{XAxis: r3.Vec{X: 1}, YAxis: r3.Vec{Y: 1}, End: math.Pi},
	}
	for i, c := range curves {
		pts := c.Discretize(17)
		if len(pts) != 17 {
			t.Fatalf("curve %d: got %d points, want 17", i, len(pts))
		}
		t0, t1 := c.Range()
		if r3.Norm(r3.Sub(pts[0], c.Evaluate(t0))) > testTolerance {
			t.Errorf("curve %d: first discretized point is not the start point", i)
		}
		if r3.Norm(r3.Sub(pts[len(pts)-1], c.Evaluate(t1))) > testTolerance {
			t.Errorf("curve %d: last discretized point is not the end point", i)
		}
	}
}

func TestSurfaceBoundaryPoints(t *testing.T) {
	pts := surfaceBoundaryPoints(UnitSquare(), 8)
	if len(pts) != 32 {
		t.Fatalf("got %d boundary points, want 32", len(pts))
	}
	for _, p := range pts {
		onEdge := different(p.X, 0, testTolerance) && different(p.X, 1, testTolerance) &&
			different(p.Y, 0, testTolerance) && different(p.Y, 1, testTolerance)
		if onEdge {
			t.Errorf("point %v is not on the domain boundary", p)
		}
	}
}

func TestIdentity(t *testing.T) {
	a := &LineCurve{P1: r3.Vec{X: 1}}
	b := &LineCurve{P1: r3.Vec{X: 1}}
	if identity(a) != identity(b) {
		t.Error("equal curves have different identities")
	}
	c := &LineCurve{P1: r3.Vec{X: 2}}
	if identity(a) == identity(c) {
		t.Error("distinct curves share an identity")
	}
}

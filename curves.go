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

	"gonum.org/v1/gonum/spatial/r3"
)

// Built-in Curve implementations, the cutting-tool counterparts of the
// surfaces in surfaces.go.

// A LineCurve is the straight segment from P0 to P1, parameterized over
// [0, 1].
type LineCurve struct {
	P0, P1 r3.Vec
}

var _ Curve = (*LineCurve)(nil)

func (c *LineCurve) Range() (float64, float64) { return 0, 1 }

func (c *LineCurve) Evaluate(t float64) r3.Vec {
	return r3.Add(c.P0, r3.Scale(t, r3.Sub(c.P1, c.P0)))
}

func (c *LineCurve) Discretize(n int) []r3.Vec {
	if n < 2 {
		n = 2
	}
	pts := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		pts[i] = c.Evaluate(float64(i) / float64(n-1))
	}
	return pts
}

func (c *LineCurve) Length() float64 {
	return r3.Norm(r3.Sub(c.P1, c.P0))
}

// Identity returns a stable identity for caching.
func (c *LineCurve) Identity() string {
	return fmt.Sprintf("line(%v,%v)", c.P0, c.P1)
}

// A PolylineCurve connects a point sequence with straight segments,
// parameterized by cumulative chord length over [0, Length].
type PolylineCurve struct {
	Pts []r3.Vec

	cum []float64 // cumulative chord lengths, lazily built
}

var _ Curve = (*PolylineCurve)(nil)

func (c *PolylineCurve) lengths() []float64 {
	if c.cum == nil {
		c.cum = make([]float64, len(c.Pts))
		for i := 1; i < len(c.Pts); i++ {
			c.cum[i] = c.cum[i-1] + r3.Norm(r3.Sub(c.Pts[i], c.Pts[i-1]))
		}
	}
	return c.cum
}

func (c *PolylineCurve) Range() (float64, float64) {
	cum := c.lengths()
	if len(cum) == 0 {
		return 0, 0
	}
	return 0, cum[len(cum)-1]
}

func (c *PolylineCurve) Evaluate(t float64) r3.Vec {
	cum := c.lengths()
	if len(c.Pts) == 0 {
		return r3.Vec{}
	}
	if len(c.Pts) == 1 || t <= 0 {
		return c.Pts[0]
	}
	total := cum[len(cum)-1]
	if t >= total {
		return c.Pts[len(c.Pts)-1]
	}
	// Locate the containing segment.
	i := 1
	for i < len(cum) && cum[i] < t {
		i++
	}
	seg := cum[i] - cum[i-1]
	if seg == 0 {
		return c.Pts[i]
	}
	f := (t - cum[i-1]) / seg
	return r3.Add(c.Pts[i-1], r3.Scale(f, r3.Sub(c.Pts[i], c.Pts[i-1])))
}

func (c *PolylineCurve) Discretize(n int) []r3.Vec {
	if n < 2 {
		n = 2
	}
	_, total := c.Range()
	pts := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		pts[i] = c.Evaluate(total * float64(i) / float64(n-1))
	}
	return pts
}

func (c *PolylineCurve) Length() float64 {
	_, total := c.Range()
	return total
}

// Identity returns a stable identity for caching.
func (c *PolylineCurve) Identity() string {
	return fmt.Sprintf("polyline(%v)", c.Pts)
}

// An ArcCurve is a circular arc: Center + cos(a)·XAxis + sin(a)·YAxis for
// a in [Start, End] radians. XAxis and YAxis carry the radius in their
// lengths.
type ArcCurve struct {
	Center       r3.Vec
	XAxis, YAxis r3.Vec
	Start, End   float64
}

var _ Curve = (*ArcCurve)(nil)

func (c *ArcCurve) Range() (float64, float64) { return c.Start, c.End }

func (c *ArcCurve) Evaluate(t float64) r3.Vec {
	return r3.Add(c.Center,
		r3.Add(r3.Scale(math.Cos(t), c.XAxis), r3.Scale(math.Sin(t), c.YAxis)))
}

func (c *ArcCurve) Discretize(n int) []r3.Vec {
	if n < 2 {
		n = 2
	}
	pts := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		t := c.Start + (c.End-c.Start)*float64(i)/float64(n-1)
		pts[i] = c.Evaluate(t)
	}
	return pts
}

// Length approximates the arc length by fine chordal sampling, which is
// exact for circular arcs up to discretization error and also covers
// elliptical axes.
func (c *ArcCurve) Length() float64 {
	const n = 256
	pts := c.Discretize(n)
	var l float64
	for i := 1; i < len(pts); i++ {
		l += r3.Norm(r3.Sub(pts[i], pts[i-1]))
	}
	return l
}

// Identity returns a stable identity for caching.
func (c *ArcCurve) Identity() string {
	return fmt.Sprintf("arc(%v,%v,%v,%g,%g)", c.Center, c.XAxis, c.YAxis, c.Start, c.End)
}

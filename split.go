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
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSplitDegenerate is returned (wrapped) when splitting produced fewer
// than two sub-regions: the cutting tools failed to separate the surface.
// It is fatal for the trim request and is never reported as a one-region
// success.
var ErrSplitDegenerate = errors.New("surftrim: split produced fewer than two regions")

// defaultSplitTol is the boolean-operation tolerance as a fraction of the
// scene scale.
const defaultSplitTol = 1e-6

// splitWireSamples is the number of points a curve is discretized into when
// building a cutting tool wire.
const splitWireSamples = 100

// A CuttingTool is a thin solid that sweeps completely through the surface
// along the projection axis: the curve's wire translated off the surface by
// the sweep distance, then extruded back through it by twice that distance.
type CuttingTool struct {
	Curve   Curve
	Wire    []r3.Vec // discretized wire, translated by direction·d
	Extrude r3.Vec   // extrusion vector, −direction·2d
}

// A Region is one sub-region of a split surface, described by a polygon in
// the surface's parameter space. The first ring is the outer boundary;
// subsequent rings are holes.
type Region struct {
	UV      geom.Polygon
	surface Surface
}

// Area returns the region's area in parameter space.
func (r *Region) Area() float64 {
	return r.UV.Area()
}

// Bounds returns the region's parameter-space bounds. It also satisfies the
// rtree Spatial interface, so regions can be indexed directly.
func (r *Region) Bounds() *geom.Bounds {
	return r.UV.Bounds()
}

// Contains reports whether surface parameters (u,v) fall within the region.
// Points on a region edge count as contained.
func (r *Region) Contains(u, v float64) bool {
	return geom.Point{X: u, Y: v}.Within(r.UV) != geom.Outside
}

// Centroid returns the region's parameter-space centroid.
func (r *Region) Centroid() geom.Point {
	return r.UV.Centroid()
}

// A SplitResult is an ordered list of disjoint sub-regions of the original
// surface. Regions are pairwise non-overlapping and their union covers the
// original domain up to the boolean tolerance; the order is stable across
// repeated calls with identical inputs.
type SplitResult struct {
	Surface Surface
	Regions []*Region
}

// A SplitKernel performs the boolean slice of a surface by a set of cutting
// tools, returning the parameter-space polygons of the resulting sub-faces.
// The engine ships with a built-in kernel that performs the boolean in UV
// space; external geometry kernels can be substituted through this
// interface.
type SplitKernel interface {
	Slice(ctx context.Context, surface Surface, tools []CuttingTool, direction r3.Vec, tol float64) ([]geom.Polygon, error)
}

// A Splitter builds cutting tools from curves and splits a surface along
// them into candidate sub-regions.
type Splitter struct {
	// Kernel performs the boolean slice. Nil selects the built-in
	// UV-space kernel.
	Kernel SplitKernel

	// Tol is the boolean tolerance as a fraction of the scene scale.
	// The zero value selects defaultSplitTol.
	Tol float64

	Log logrus.FieldLogger
}

// NewSplitter returns a Splitter using the built-in UV-space kernel driven
// by pj.
func NewSplitter(pj *Projector, log logrus.FieldLogger) *Splitter {
	if log == nil {
		log = discardLogger()
	}
	return &Splitter{
		Kernel: &uvKernel{projector: pj, log: log},
		Tol:    defaultSplitTol,
		Log:    log,
	}
}

// Split builds one cutting tool per curve and slices the surface with the
// full set. Fewer than two resulting regions is a fatal condition for the
// request, reported as ErrSplitDegenerate.
func (sp *Splitter) Split(ctx context.Context, surface Surface, curves []Curve, direction r3.Vec) (*SplitResult, error) {
	dir, err := normalizeDirection(direction)
	if err != nil {
		return nil, err
	}
	if len(curves) == 0 {
		return nil, fmt.Errorf("surftrim: no cutting curves supplied")
	}

	// Sweep distance: twice the diagonal of the combined extent of the
	// curves and the surface, so every tool passes completely through.
	var box box3
	for _, p := range surfaceBoundaryPoints(surface, 8) {
		box.extend(p)
	}
	for _, c := range curves {
		for _, p := range c.Discretize(splitWireSamples) {
			box.extend(p)
		}
	}
	d := 2 * box.diagonal()
	if d == 0 {
		return nil, fmt.Errorf("surftrim: degenerate scene extent")
	}

	tools := make([]CuttingTool, len(curves))
	offset := r3.Scale(d, dir)
	for i, c := range curves {
		pts := c.Discretize(splitWireSamples)
		wire := make([]r3.Vec, len(pts))
		for j, p := range pts {
			wire[j] = r3.Add(p, offset)
		}
		tools[i] = CuttingTool{
			Curve:   c,
			Wire:    wire,
			Extrude: r3.Scale(-2*d, dir),
		}
	}

	tol := sp.Tol
	if tol == 0 {
		tol = defaultSplitTol
	}
	kernel := sp.Kernel
	if kernel == nil {
		kernel = &uvKernel{projector: NewProjector(sp.Log), log: sp.Log}
	}
	polys, err := kernel.Slice(ctx, surface, tools, dir, tol)
	if err != nil {
		return nil, fmt.Errorf("surftrim: boolean slice: %w", err)
	}
	if len(polys) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSplitDegenerate, len(polys))
	}

	// Stable region order: sort by parameter-space bounds so identical
	// inputs always resolve identically downstream.
	sort.SliceStable(polys, func(i, j int) bool {
		bi, bj := polys[i].Bounds(), polys[j].Bounds()
		if bi.Min.Y != bj.Min.Y {
			return bi.Min.Y < bj.Min.Y
		}
		if bi.Min.X != bj.Min.X {
			return bi.Min.X < bj.Min.X
		}
		return polys[i].Area() > polys[j].Area()
	})

	res := &SplitResult{Surface: surface, Regions: make([]*Region, len(polys))}
	for i, p := range polys {
		res.Regions[i] = &Region{UV: p, surface: surface}
	}
	sp.Log.WithField("regions", len(res.Regions)).Debug("surface split")
	return res, nil
}

// uvKernel is the built-in boolean kernel. It maps each cutting tool into
// the surface's parameter space with the projector and subtracts thin
// cutting strips from the domain rectangle; the connected pieces that
// remain are the sub-regions. Because the tool wires are translated along
// the projection direction, projecting them along that same direction
// recovers the untranslated curve's parameter-space trace.
type uvKernel struct {
	projector *Projector
	log       logrus.FieldLogger
}

func (k *uvKernel) Slice(ctx context.Context, surface Surface, tools []CuttingTool, direction r3.Vec, tol float64) ([]geom.Polygon, error) {
	dom := surface.Domain()
	domain := boundsPolygon(dom)
	width := boundsDiagonal(dom) * tol
	if width == 0 {
		return nil, fmt.Errorf("degenerate surface domain")
	}

	remaining := domain
	cut := 0
	for i, tool := range tools {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		strip, err := k.toolStrip(tool, surface, direction, width)
		if err != nil {
			// A tool that cannot be traced cannot cut; the slice
			// proceeds with the remaining tools.
			k.log.WithFields(logrus.Fields{"tool": i, "error": err}).
				Warn("cutting tool skipped")
			continue
		}
		remaining = remaining.Difference(strip).(geom.Polygon)
		cut++
	}
	if cut == 0 {
		return nil, fmt.Errorf("no usable cutting tools")
	}
	return splitContours(remaining), nil
}

// toolStrip projects the tool wire into parameter space and thickens the
// resulting polyline into a closed strip of the given width.
func (k *uvKernel) toolStrip(tool CuttingTool, surface Surface, direction r3.Vec, width float64) (geom.Polygon, error) {
	var line []geom.Point
	failed := 0
	for _, p := range tool.Wire {
		s, err := k.projector.Project(p, direction, surface)
		if err != nil {
			failed++
			continue
		}
		line = append(line, geom.Point{X: s.U, Y: s.V})
	}
	if len(line) < 2 {
		return nil, fmt.Errorf("%d of %d wire points projected: %w",
			len(line), len(tool.Wire), ErrInsufficientProjections)
	}
	if failed > 0 {
		k.log.WithFields(logrus.Fields{"failed": failed, "total": len(tool.Wire)}).
			Debug("partial wire projection")
	}
	return thickenPolyline(line, width), nil
}

// boundsPolygon returns the rectangle of b as a single-ring polygon wound
// counterclockwise.
func boundsPolygon(b *geom.Bounds) geom.Polygon {
	return geom.Polygon{{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Min.Y},
	}}
}

// thickenPolyline offsets a polyline by ±width/2 perpendicular to each
// segment, producing the closed strip swept by the cutting tool in
// parameter space. Degenerate (repeated) points are skipped.
func thickenPolyline(line []geom.Point, width float64) geom.Polygon {
	h := width / 2
	var left, right []geom.Point
	for i := 0; i < len(line)-1; i++ {
		p, q := line[i], line[i+1]
		dx, dy := q.X-p.X, q.Y-p.Y
		n := math.Hypot(dx, dy)
		if n == 0 {
			continue
		}
		// Unit normal to the segment.
		nx, ny := -dy/n, dx/n
		left = append(left, geom.Point{X: p.X + nx*h, Y: p.Y + ny*h},
			geom.Point{X: q.X + nx*h, Y: q.Y + ny*h})
		right = append(right, geom.Point{X: p.X - nx*h, Y: p.Y - ny*h},
			geom.Point{X: q.X - nx*h, Y: q.Y - ny*h})
	}
	ring := make([]geom.Point, 0, len(left)+len(right)+1)
	ring = append(ring, left...)
	for i := len(right) - 1; i >= 0; i-- {
		ring = append(ring, right[i])
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return geom.Polygon{ring}
}

// splitContours separates a multi-contour boolean result into disjoint
// regions: each outer ring becomes a region, with the rings it contains
// attached as holes.
func splitContours(p geom.Polygon) []geom.Polygon {
	type ring struct {
		pts   []geom.Point
		depth int // number of other rings containing this ring
		outer int // index of the immediately containing outer ring, or -1
	}
	rings := make([]ring, 0, len(p))
	for _, r := range p {
		if len(r) >= 3 {
			rings = append(rings, ring{pts: r, outer: -1})
		}
	}

	// Containment by representative point. A ring inside an odd number
	// of others is a hole.
	for i := range rings {
		rep := ringInteriorPoint(rings[i].pts)
		bestArea := math.Inf(1)
		for j := range rings {
			if i == j {
				continue
			}
			other := geom.Polygon{rings[j].pts}
			if rep.Within(other) == geom.Inside {
				rings[i].depth++
				if a := other.Area(); a < bestArea {
					bestArea = a
					rings[i].outer = j
				}
			}
		}
	}

	regionIndex := make(map[int]int)
	var out []geom.Polygon
	for i := range rings {
		if rings[i].depth%2 == 0 {
			regionIndex[i] = len(out)
			out = append(out, geom.Polygon{rings[i].pts})
		}
	}
	for i := range rings {
		if rings[i].depth%2 == 1 && rings[i].outer >= 0 {
			if ri, ok := regionIndex[rings[i].outer]; ok {
				out[ri] = append(out[ri], rings[i].pts)
			}
		}
	}
	return out
}

// ringInteriorPoint returns a point representative of the ring's interior:
// the area-weighted centroid when it falls inside the ring, otherwise a
// vertex midpoint average.
func ringInteriorPoint(ring []geom.Point) geom.Point {
	poly := geom.Polygon{ring}
	c := poly.Centroid()
	if c.Within(poly) == geom.Inside {
		return c
	}
	// Fallback for non-convex rings whose centroid falls outside.
	var sx, sy float64
	for _, p := range ring {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(ring))
	return geom.Point{X: sx / n, Y: sy / n}
}

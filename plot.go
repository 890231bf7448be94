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
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// WriteUVDiagnostic renders a parameter-space picture of a trim problem to
// a PNG file: the surface's domain rectangle, the projected trace of each
// curve, and (when split is non-nil) the outlines of the split regions.
// It is the offline counterpart of the interactive projection overlay in
// the original tool, intended for debugging coverage and split behavior.
func WriteUVDiagnostic(path string, surface Surface, curves []Curve, direction r3.Vec, pj *Projector, split *SplitResult) error {
	dir, err := normalizeDirection(direction)
	if err != nil {
		return err
	}
	if pj == nil {
		pj = NewProjector(nil)
	}

	p := plot.New()
	p.Title.Text = "projected curves in surface parameter space"
	p.X.Label.Text = "u"
	p.Y.Label.Text = "v"

	// Domain rectangle.
	dom := surface.Domain()
	rect := plotter.XYs{
		{X: dom.Min.X, Y: dom.Min.Y},
		{X: dom.Max.X, Y: dom.Min.Y},
		{X: dom.Max.X, Y: dom.Max.Y},
		{X: dom.Min.X, Y: dom.Max.Y},
		{X: dom.Min.X, Y: dom.Min.Y},
	}
	domLine, err := plotter.NewLine(rect)
	if err != nil {
		return fmt.Errorf("surftrim: plotting domain: %w", err)
	}
	domLine.Color = color.RGBA{B: 255, A: 255}
	p.Add(domLine)
	p.Legend.Add("domain", domLine)

	for i, c := range curves {
		var trace plotter.XYs
		for _, pt := range c.Discretize(defaultCoverageSamples) {
			s, err := pj.Project(pt, dir, surface)
			if err != nil {
				continue
			}
			trace = append(trace, plotter.XY{X: s.U, Y: s.V})
		}
		if len(trace) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(trace)
		if err != nil {
			return fmt.Errorf("surftrim: plotting curve %d: %w", i, err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		sc.Color = color.RGBA{G: 180, A: 255}
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("curve %d", i), sc)
	}

	if split != nil {
		for i, r := range split.Regions {
			for _, ring := range r.UV {
				var outline plotter.XYs
				for _, pt := range ring {
					outline = append(outline, plotter.XY(pt))
				}
				l, err := plotter.NewLine(outline)
				if err != nil {
					return fmt.Errorf("surftrim: plotting region %d: %w", i, err)
				}
				l.Color = color.RGBA{R: 200, A: 255}
				l.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
				p.Add(l)
			}
		}
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("surftrim: saving diagnostic plot: %w", err)
	}
	return nil
}

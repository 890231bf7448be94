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

package surftrimutil

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/surftrim"
	"gonum.org/v1/gonum/spatial/r3"
)

// A Scene is a complete trim problem loaded from a scene file: the target
// surface, the cutting curves, the projection direction and the default
// selection point.
type Scene struct {
	Surface        surftrim.Surface
	Curves         []surftrim.Curve
	Direction      r3.Vec
	SelectionPoint r3.Vec
}

// sceneSpec is the JSON shape of a scene file.
type sceneSpec struct {
	Surface        surfaceSpec `json:"surface"`
	Curves         []curveSpec `json:"curves"`
	Direction      [3]float64  `json:"direction"`
	SelectionPoint [3]float64  `json:"selectionPoint"`
}

type surfaceSpec struct {
	// Type is "plane" or "bilinear".
	Type string `json:"type"`

	// Plane surfaces.
	Origin [3]float64 `json:"origin"`
	UAxis  [3]float64 `json:"uAxis"`
	VAxis  [3]float64 `json:"vAxis"`

	// Bilinear surfaces: corners in the order P00, P10, P01, P11.
	Corners [][3]float64 `json:"corners"`

	// Domain is [uMin, vMin, uMax, vMax]. Empty means the unit square.
	Domain []float64 `json:"domain"`
}

type curveSpec struct {
	// Type is "line", "polyline" or "arc".
	Type   string       `json:"type"`
	Points [][3]float64 `json:"points"`

	// Arc curves.
	Center [3]float64 `json:"center"`
	XAxis  [3]float64 `json:"xAxis"`
	YAxis  [3]float64 `json:"yAxis"`
	Start  float64    `json:"start"`
	End    float64    `json:"end"`
}

func vec(p [3]float64) r3.Vec { return r3.Vec{X: p[0], Y: p[1], Z: p[2]} }

// LoadScene reads and validates a JSON scene file.
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("surftrim: opening scene file: %v", err)
	}
	defer f.Close()
	var spec sceneSpec
	if err := json.NewDecoder(f).Decode(&spec); err != nil {
		return nil, fmt.Errorf("surftrim: parsing scene file %s: %v", path, err)
	}

	surface, err := spec.Surface.build()
	if err != nil {
		return nil, fmt.Errorf("surftrim: scene file %s: %v", path, err)
	}
	if len(spec.Curves) == 0 {
		return nil, fmt.Errorf("surftrim: scene file %s has no cutting curves", path)
	}
	curves := make([]surftrim.Curve, len(spec.Curves))
	for i, cs := range spec.Curves {
		c, err := cs.build()
		if err != nil {
			return nil, fmt.Errorf("surftrim: scene file %s, curve %d: %v", path, i, err)
		}
		curves[i] = c
	}
	return &Scene{
		Surface:        surface,
		Curves:         curves,
		Direction:      vec(spec.Direction),
		SelectionPoint: vec(spec.SelectionPoint),
	}, nil
}

func (s surfaceSpec) domain() (*geom.Bounds, error) {
	switch len(s.Domain) {
	case 0:
		return &geom.Bounds{
			Min: geom.Point{X: 0, Y: 0},
			Max: geom.Point{X: 1, Y: 1},
		}, nil
	case 4:
		if s.Domain[0] >= s.Domain[2] || s.Domain[1] >= s.Domain[3] {
			return nil, fmt.Errorf("empty surface domain %v", s.Domain)
		}
		return &geom.Bounds{
			Min: geom.Point{X: s.Domain[0], Y: s.Domain[1]},
			Max: geom.Point{X: s.Domain[2], Y: s.Domain[3]},
		}, nil
	default:
		return nil, fmt.Errorf("surface domain must have 4 entries, got %d", len(s.Domain))
	}
}

func (s surfaceSpec) build() (surftrim.Surface, error) {
	dom, err := s.domain()
	if err != nil {
		return nil, err
	}
	switch s.Type {
	case "plane":
		return &surftrim.PlaneSurface{
			Origin: vec(s.Origin),
			UAxis:  vec(s.UAxis),
			VAxis:  vec(s.VAxis),
			Dom:    dom,
		}, nil
	case "bilinear":
		if len(s.Corners) != 4 {
			return nil, fmt.Errorf("bilinear surface needs 4 corners, got %d", len(s.Corners))
		}
		return &surftrim.BilinearSurface{
			P00: vec(s.Corners[0]),
			P10: vec(s.Corners[1]),
			P01: vec(s.Corners[2]),
			P11: vec(s.Corners[3]),
			Dom: dom,
		}, nil
	default:
		return nil, fmt.Errorf("unknown surface type %q", s.Type)
	}
}

func (c curveSpec) build() (surftrim.Curve, error) {
	switch c.Type {
	case "line":
		if len(c.Points) != 2 {
			return nil, fmt.Errorf("line curve needs 2 points, got %d", len(c.Points))
		}
		return &surftrim.LineCurve{P0: vec(c.Points[0]), P1: vec(c.Points[1])}, nil
	case "polyline":
		if len(c.Points) < 2 {
			return nil, fmt.Errorf("polyline curve needs at least 2 points, got %d", len(c.Points))
		}
		pts := make([]r3.Vec, len(c.Points))
		for i, p := range c.Points {
			pts[i] = vec(p)
		}
		return &surftrim.PolylineCurve{Pts: pts}, nil
	case "arc":
		if c.Start >= c.End {
			return nil, fmt.Errorf("empty arc parameter range [%g,%g]", c.Start, c.End)
		}
		return &surftrim.ArcCurve{
			Center: vec(c.Center),
			XAxis:  vec(c.XAxis),
			YAxis:  vec(c.YAxis),
			Start:  c.Start,
			End:    c.End,
		}, nil
	default:
		return nil, fmt.Errorf("unknown curve type %q", c.Type)
	}
}

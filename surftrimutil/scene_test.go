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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spatialmodel/surftrim"
	"gonum.org/v1/gonum/spatial/r3"
)

func writeScene(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const planeScene = `{
	"surface": {
		"type": "plane",
		"origin": [0, 0, 0],
		"uAxis": [1, 0, 0],
		"vAxis": [0, 1, 0]
	},
	"curves": [
		{"type": "line", "points": [[-1, 0.5, 1], [2, 0.5, 1]]},
		{"type": "polyline", "points": [[0, 0, 1], [1, 0, 1], [1, 1, 1]]},
		{"type": "arc", "center": [0.5, 0.5, 1], "xAxis": [1, 0, 0], "yAxis": [0, 1, 0], "start": 0, "end": 3.14}
	],
	"direction": [0, 0, -1],
	"selectionPoint": [0.25, 0.25, 0]
}`

func TestLoadScene(t *testing.T) {
	scene, err := LoadScene(writeScene(t, planeScene))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := scene.Surface.(*surftrim.PlaneSurface); !ok {
		t.Fatalf("surface has type %T, want *surftrim.PlaneSurface", scene.Surface)
	}
	if len(scene.Curves) != 3 {
		t.Fatalf("got %d curves, want 3", len(scene.Curves))
	}
	if _, ok := scene.Curves[0].(*surftrim.LineCurve); !ok {
		t.Errorf("curve 0 has type %T, want *surftrim.LineCurve", scene.Curves[0])
	}
	if _, ok := scene.Curves[1].(*surftrim.PolylineCurve); !ok {
		t.Errorf("curve 1 has type %T, want *surftrim.PolylineCurve", scene.Curves[1])
	}
	if _, ok := scene.Curves[2].(*surftrim.ArcCurve); !ok {
		t.Errorf("curve 2 has type %T, want *surftrim.ArcCurve", scene.Curves[2])
	}
	if diff := cmp.Diff(r3.Vec{Z: -1}, scene.Direction); diff != "" {
		t.Errorf("direction mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(r3.Vec{X: 0.25, Y: 0.25}, scene.SelectionPoint); diff != "" {
		t.Errorf("selection point mismatch (-want +got):\n%s", diff)
	}
	// Omitted domain defaults to the unit square.
	dom := scene.Surface.Domain()
	if dom.Min.X != 0 || dom.Min.Y != 0 || dom.Max.X != 1 || dom.Max.Y != 1 {
		t.Errorf("default domain = %+v, want unit square", dom)
	}
}

func TestLoadSceneBilinear(t *testing.T) {
	scene, err := LoadScene(writeScene(t, `{
		"surface": {
			"type": "bilinear",
			"corners": [[0, 0, 0], [1, 0, 0.2], [0, 1, 0.1], [1, 1, 0]],
			"domain": [-1, -1, 1, 1]
		},
		"curves": [{"type": "line", "points": [[-2, 0, 1], [2, 0, 1]]}],
		"direction": [0, 0, -1]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	s, ok := scene.Surface.(*surftrim.BilinearSurface)
	if !ok {
		t.Fatalf("surface has type %T, want *surftrim.BilinearSurface", scene.Surface)
	}
	if s.Dom.Min.X != -1 || s.Dom.Max.Y != 1 {
		t.Errorf("domain = %+v, want [-1, -1, 1, 1]", s.Dom)
	}
}

func TestLoadSceneErrors(t *testing.T) {
	cases := []struct {
		name, scene string
	}{
		{"unknown surface", `{"surface": {"type": "nurbs"}, "curves": [{"type": "line", "points": [[0,0,0],[1,0,0]]}]}`},
		{"no curves", `{"surface": {"type": "plane", "uAxis": [1,0,0], "vAxis": [0,1,0]}, "curves": []}`},
		{"bad domain", `{"surface": {"type": "plane", "uAxis": [1,0,0], "vAxis": [0,1,0], "domain": [0, 0, 1]}, "curves": [{"type": "line", "points": [[0,0,0],[1,0,0]]}]}`},
		{"empty domain", `{"surface": {"type": "plane", "uAxis": [1,0,0], "vAxis": [0,1,0], "domain": [1, 0, 0, 1]}, "curves": [{"type": "line", "points": [[0,0,0],[1,0,0]]}]}`},
		{"line point count", `{"surface": {"type": "plane", "uAxis": [1,0,0], "vAxis": [0,1,0]}, "curves": [{"type": "line", "points": [[0,0,0]]}]}`},
		{"unknown curve", `{"surface": {"type": "plane", "uAxis": [1,0,0], "vAxis": [0,1,0]}, "curves": [{"type": "spiral"}]}`},
		{"empty arc", `{"surface": {"type": "plane", "uAxis": [1,0,0], "vAxis": [0,1,0]}, "curves": [{"type": "arc", "xAxis": [1,0,0], "yAxis": [0,1,0], "start": 1, "end": 1}]}`},
		{"missing corners", `{"surface": {"type": "bilinear"}, "curves": [{"type": "line", "points": [[0,0,0],[1,0,0]]}]}`},
		{"not json", `surface curves`},
	}
	for _, c := range cases {
		if _, err := LoadScene(writeScene(t, c.scene)); err == nil {
			t.Errorf("%s: want error, got nil", c.name)
		}
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	if _, err := LoadScene(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("want error for missing file")
	}
}

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
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestWriteUVDiagnostic(t *testing.T) {
	res := twoRegionSplit(t)
	path := filepath.Join(t.TempDir(), "diag.png")
	err := WriteUVDiagnostic(path, UnitSquare(), []Curve{crossingCurve()}, down, nil, res)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("diagnostic plot file is empty")
	}
}

func TestWriteUVDiagnosticZeroDirection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.png")
	err := WriteUVDiagnostic(path, UnitSquare(), []Curve{crossingCurve()}, r3.Vec{}, nil, nil)
	if !errors.Is(err, ErrZeroDirection) {
		t.Errorf("want ErrZeroDirection, got %v", err)
	}
}

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
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func twoRegionSplit(t *testing.T) *SplitResult {
	t.Helper()
	sp := NewSplitter(NewProjector(nil), nil)
	res, err := sp.Split(context.Background(), UnitSquare(), []Curve{crossingCurve()}, down)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestSelect(t *testing.T) {
	res := twoRegionSplit(t)
	sl := NewSelector(nil)

	idx, err := sl.Select(res, r3.Vec{X: 0.5, Y: 0.25}, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 {
		t.Errorf("point in lower half selected region %d, want 0", idx)
	}

	idx, err = sl.Select(res, r3.Vec{X: 0.5, Y: 0.75}, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 {
		t.Errorf("point in upper half selected region %d, want 1", idx)
	}
}

func TestSelectDeterministic(t *testing.T) {
	res := twoRegionSplit(t)
	sl := NewSelector(nil)
	point := r3.Vec{X: 0.3, Y: 0.6}
	first, err := sl.Select(res, point, UnitSquare())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		idx, err := sl.Select(res, point, UnitSquare())
		if err != nil {
			t.Fatal(err)
		}
		if idx != first {
			t.Fatalf("selection changed between calls: %d vs %d", idx, first)
		}
	}
}

// A point in the removed cut strip matches nothing; the selector must fail
// rather than pick a region arbitrarily.
func TestSelectNoMatch(t *testing.T) {
	res := twoRegionSplit(t)
	sl := NewSelector(nil)
	_, err := sl.Select(res, r3.Vec{X: 0.5, Y: 0.5}, UnitSquare())
	if !errors.Is(err, ErrNoRegionMatch) {
		t.Errorf("want ErrNoRegionMatch, got %v", err)
	}
}

func TestSelectEmptyResult(t *testing.T) {
	sl := NewSelector(nil)
	if _, err := sl.Select(nil, r3.Vec{}, UnitSquare()); !errors.Is(err, ErrNoRegionMatch) {
		t.Errorf("want ErrNoRegionMatch, got %v", err)
	}
}

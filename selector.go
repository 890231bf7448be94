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
	"fmt"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoRegionMatch is returned (wrapped) when the selection point matches
// no sub-region. It is fatal for the trim request: the caller must supply a
// new selection point; an arbitrary region is never chosen by default.
var ErrNoRegionMatch = errors.New("surftrim: selection point matches no region")

// A Selector resolves a selection point to exactly one sub-region of a
// split result.
type Selector struct {
	Log logrus.FieldLogger
}

// NewSelector returns a Selector. If log is nil, logging is discarded.
func NewSelector(log logrus.FieldLogger) *Selector {
	if log == nil {
		log = discardLogger()
	}
	return &Selector{Log: log}
}

// regionEntry pairs a region's parameter-space polygon with its
// split-result index for rtree storage.
type regionEntry struct {
	geom.Polygon
	index int
}

// Select maps point to the surface's (u,v) using the kernel's clamped
// inverse, which is acceptable here because the point is expected to
// genuinely lie on the surface, and returns the index of the region
// containing those parameters.
// Candidate regions come from an rtree query on the region
// bounds and are tested in split-result order, so repeated calls with
// identical inputs always resolve identically.
func (sl *Selector) Select(res *SplitResult, point r3.Vec, surface Surface) (int, error) {
	if res == nil || len(res.Regions) == 0 {
		return -1, fmt.Errorf("surftrim: empty split result: %w", ErrNoRegionMatch)
	}

	u, v := surface.ApproxParameter(point)
	pt := geom.Point{X: u, Y: v}

	tree := rtree.NewTree(25, 50)
	for i, r := range res.Regions {
		tree.Insert(regionEntry{Polygon: r.UV, index: i})
	}

	hits := tree.SearchIntersect(pt.Bounds())
	candidates := make([]int, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, h.(regionEntry).index)
	}
	sort.Ints(candidates)

	for _, i := range candidates {
		if res.Regions[i].Contains(u, v) {
			sl.Log.WithFields(logrus.Fields{"u": u, "v": v, "region": i}).
				Debug("selection resolved")
			return i, nil
		}
	}
	return -1, fmt.Errorf("point (%g, %g) in parameter space: %w", u, v, ErrNoRegionMatch)
}

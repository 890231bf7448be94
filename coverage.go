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
	"math"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInsufficientProjections is returned (wrapped) when fewer than two of a
// curve's samples projected successfully, which is too few to judge
// coverage. The curve is excluded from the coverage decision rather than
// assumed adequate.
var ErrInsufficientProjections = errors.New("surftrim: too few samples projected to judge coverage")

// A CoverageRule selects which adequacy heuristic the analyzer applies. The
// two rules existed side by side in earlier revisions of this tool without
// ever being reconciled; they are kept behind this explicit flag and are
// never mixed within one analysis.
type CoverageRule int

const (
	// UVRule is the canonical rule: a curve is adequate when both
	// projected endpoints land strictly outside the surface's domain
	// rectangle and the projected samples overlap the domain interior
	// with positive area on both axes. This covers straight cuts,
	// diagonal cuts, and curves that enter and exit through the same
	// side.
	UVRule CoverageRule = iota

	// ExtentRule is the coarser fallback: curve and surface are
	// projected onto the plane orthogonal to the direction, and the
	// curve's extent must reach at least MinExtentFraction of the
	// surface's extent on both in-plane axes. It needs no surface
	// inverse mapping, only endpoint geometry.
	ExtentRule
)

func (r CoverageRule) String() string {
	switch r {
	case UVRule:
		return "uv"
	case ExtentRule:
		return "extent"
	default:
		return fmt.Sprintf("CoverageRule(%d)", int(r))
	}
}

// MinExtentFraction is the fraction of the surface's projected extent that
// a curve's projection must reach, per axis, under ExtentRule.
const MinExtentFraction = 0.9

// defaultCoverageSamples is the number of points sampled along each curve
// for the UV rule, endpoints included.
const defaultCoverageSamples = 50

// A CurveDiagnostic describes how one curve's projection relates to the
// surface. UCoverage and VCoverage are the fractions of the domain covered
// by the projected sample box, for display; the adequacy decision itself
// does not use them.
type CurveDiagnostic struct {
	Curve    int // index of the curve in the analyzed set
	Adequate bool

	StartOutside bool // projected start point is outside the domain
	EndOutside   bool // projected end point is outside the domain
	Interior     bool // sample box overlaps the domain interior

	UCoverage, VCoverage float64

	Converged, Failed int // per-sample projection outcomes

	// Err is non-nil when the curve could not be judged and was
	// excluded from the coverage decision.
	Err error
}

// A CoverageVerdict aggregates per-curve diagnostics over a curve set.
// Adequate is true only when every judged curve is adequate and at least
// one curve could be judged.
type CoverageVerdict struct {
	Adequate bool
	PerCurve []CurveDiagnostic
}

// An Analyzer decides whether projected curves adequately cross a surface.
type Analyzer struct {
	Projector *Projector

	// Rule selects the adequacy heuristic. The zero value is UVRule.
	Rule CoverageRule

	// Samples is the number of points sampled along each curve under
	// UVRule. Values below defaultCoverageSamples are raised to it.
	Samples int

	Log logrus.FieldLogger
}

// NewAnalyzer returns an Analyzer using pj for projections and the
// canonical UV adequacy rule.
func NewAnalyzer(pj *Projector, log logrus.FieldLogger) *Analyzer {
	if log == nil {
		log = discardLogger()
	}
	return &Analyzer{
		Projector: pj,
		Rule:      UVRule,
		Samples:   defaultCoverageSamples,
		Log:       log,
	}
}

// Analyze judges a single curve against the surface.
func (a *Analyzer) Analyze(curve Curve, surface Surface, direction r3.Vec) (CurveDiagnostic, error) {
	dir, err := normalizeDirection(direction)
	if err != nil {
		return CurveDiagnostic{}, err
	}
	switch a.Rule {
	case ExtentRule:
		return a.analyzeExtent(curve, surface, dir), nil
	default:
		return a.analyzeUV(curve, surface, dir), nil
	}
}

// AnalyzeAll judges a set of curves and aggregates the verdict. Curves that
// cannot be judged are excluded from the decision and carry a non-nil Err in
// their diagnostic; if no curve can be judged the verdict is inadequate.
func (a *Analyzer) AnalyzeAll(curves []Curve, surface Surface, direction r3.Vec) (CoverageVerdict, error) {
	dir, err := normalizeDirection(direction)
	if err != nil {
		return CoverageVerdict{}, err
	}
	verdict := CoverageVerdict{PerCurve: make([]CurveDiagnostic, len(curves))}
	judged := 0
	allAdequate := true
	for i, c := range curves {
		var d CurveDiagnostic
		if a.Rule == ExtentRule {
			d = a.analyzeExtent(c, surface, dir)
		} else {
			d = a.analyzeUV(c, surface, dir)
		}
		d.Curve = i
		verdict.PerCurve[i] = d
		if d.Err != nil {
			a.Log.WithFields(logrus.Fields{"curve": i, "error": d.Err}).
				Warn("curve excluded from coverage decision")
			continue
		}
		judged++
		if !d.Adequate {
			allAdequate = false
		}
	}
	verdict.Adequate = judged > 0 && allAdequate
	return verdict, nil
}

// analyzeUV applies the canonical rule: project the endpoints and a dense
// interior sampling, then require both endpoints outside the domain and a
// positive-area overlap between the sample box and the domain.
func (a *Analyzer) analyzeUV(curve Curve, surface Surface, dir r3.Vec) CurveDiagnostic {
	n := a.Samples
	if n < defaultCoverageSamples {
		n = defaultCoverageSamples
	}
	pts := curve.Discretize(n)
	if len(pts) < 2 {
		return CurveDiagnostic{Err: fmt.Errorf("curve discretized to %d points: %w", len(pts), ErrInsufficientProjections)}
	}

	var d CurveDiagnostic
	us := make([]float64, 0, len(pts))
	vs := make([]float64, 0, len(pts))
	var startSample, endSample *ProjectedSample
	for i, p := range pts {
		s, err := a.Projector.Project(p, dir, surface)
		if err != nil {
			d.Failed++
			continue
		}
		d.Converged++
		us = append(us, s.U)
		vs = append(vs, s.V)
		if i == 0 {
			sc := s
			startSample = &sc
		}
		if i == len(pts)-1 {
			sc := s
			endSample = &sc
		}
	}

	if d.Converged < 2 {
		d.Err = fmt.Errorf("%d of %d samples converged: %w", d.Converged, len(pts), ErrInsufficientProjections)
		return d
	}
	if startSample == nil || endSample == nil {
		d.Err = fmt.Errorf("curve endpoint projection failed: %w", ErrInsufficientProjections)
		return d
	}

	dom := surface.Domain()
	d.StartOutside = outsideDomain(startSample.U, startSample.V, dom)
	d.EndOutside = outsideDomain(endSample.U, endSample.V, dom)

	// Positive-area overlap between the sample box and the domain on
	// both axes.
	minU, maxU := floats.Min(us), floats.Max(us)
	minV, maxV := floats.Min(vs), floats.Max(vs)
	d.Interior = minU < dom.Max.X && maxU > dom.Min.X &&
		minV < dom.Max.Y && maxV > dom.Min.Y

	d.UCoverage = coverageFraction(minU, maxU, dom.Min.X, dom.Max.X)
	d.VCoverage = coverageFraction(minV, maxV, dom.Min.Y, dom.Max.Y)

	d.Adequate = d.StartOutside && d.EndOutside && d.Interior
	a.Log.WithFields(logrus.Fields{
		"adequate":     d.Adequate,
		"startOutside": d.StartOutside,
		"endOutside":   d.EndOutside,
		"interior":     d.Interior,
		"uCoverage":    d.UCoverage,
		"vCoverage":    d.VCoverage,
	}).Debug("coverage analyzed")
	return d
}

// analyzeExtent applies the fallback rule on the plane orthogonal to the
// projection direction, comparing the curve's endpoint extent against the
// surface's boundary extent on both in-plane axes.
func (a *Analyzer) analyzeExtent(curve Curve, surface Surface, dir r3.Vec) CurveDiagnostic {
	e1, e2 := planeBasis(dir)

	t0, t1 := curve.Range()
	c0 := curve.Evaluate(t0)
	c1 := curve.Evaluate(t1)
	curveU := math.Abs(r3.Dot(c1, e1) - r3.Dot(c0, e1))
	curveV := math.Abs(r3.Dot(c1, e2) - r3.Dot(c0, e2))

	var minU, maxU, minV, maxV float64
	for i, p := range surfaceBoundaryPoints(surface, 8) {
		pu := r3.Dot(p, e1)
		pv := r3.Dot(p, e2)
		if i == 0 {
			minU, maxU, minV, maxV = pu, pu, pv, pv
			continue
		}
		minU = math.Min(minU, pu)
		maxU = math.Max(maxU, pu)
		minV = math.Min(minV, pv)
		maxV = math.Max(maxV, pv)
	}
	faceU := maxU - minU
	faceV := maxV - minV

	d := CurveDiagnostic{Converged: 2}
	d.UCoverage = coverageRatio(curveU, faceU)
	d.VCoverage = coverageRatio(curveV, faceV)
	d.Adequate = d.UCoverage >= MinExtentFraction && d.VCoverage >= MinExtentFraction
	d.StartOutside = d.Adequate
	d.EndOutside = d.Adequate
	d.Interior = d.Adequate
	return d
}

// outsideDomain reports whether (u,v) is strictly outside the domain
// rectangle.
func outsideDomain(u, v float64, dom *geom.Bounds) bool {
	return u < dom.Min.X || u > dom.Max.X || v < dom.Min.Y || v > dom.Max.Y
}

// coverageFraction is the fraction of [lo, hi] covered by [min, max],
// clipped to [0, 1].
func coverageFraction(min, max, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	c := math.Min(max, hi) - math.Max(min, lo)
	if c < 0 {
		return 0
	}
	return math.Min(c/(hi-lo), 1)
}

// coverageRatio is curve extent over face extent, clipped to [0, 1]. A
// degenerate face axis counts as fully covered.
func coverageRatio(curve, face float64) float64 {
	if face <= 0 {
		return 1
	}
	return math.Min(curve/face, 1)
}

// planeBasis returns an orthonormal basis for the plane orthogonal to the
// unit vector dir. The basis choice is deterministic.
func planeBasis(dir r3.Vec) (e1, e2 r3.Vec) {
	ref := r3.Vec{X: 1}
	if math.Abs(dir.X) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	e1 = r3.Unit(r3.Cross(dir, ref))
	e2 = r3.Cross(dir, e1)
	return e1, e2
}

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

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default numerical parameters for the projector.
const (
	defaultProjectTol       = 0.01   // convergence tolerance [scene units]
	defaultProjectCoarseTol = 50.0   // acceptance tolerance for stalled iterations
	defaultProjectLine      = 1000.0 // half-length of the seed line
	defaultProjectDamping   = 0.7
	defaultProjectMaxIter   = 50
	defaultProjectSeeds     = 5

	// singularDetTol is the cutoff below which the normal-equations
	// system is treated as singular.
	singularDetTol = 1e-10

	// fdStepFraction is the finite-difference step as a fraction of each
	// domain axis range.
	fdStepFraction = 0.01
)

// A ProjectedSample is the converged (or best-effort) surface location for
// one projected input point.
type ProjectedSample struct {
	U, V     float64
	Point    r3.Vec  // surface point at (U, V)
	Residual float64 // distance from Point to the projection line
}

// A ProjectionError reports that a single sample failed to converge. It is
// non-fatal: callers accumulate projection failures and only escalate when
// too few samples remain for the next stage.
type ProjectionError struct {
	Point    r3.Vec  // the input point that failed to project
	Residual float64 // the best residual reached before giving up
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("surftrim: projection of point (%g, %g, %g) did not converge (residual %g)",
		e.Point.X, e.Point.Y, e.Point.Z, e.Residual)
}

// A Projector maps a 3-D point and projection direction to surface
// parameters (u,v), solving for the intersection of the projection line with
// the surface. Unlike the kernel's ApproxParameter, the result is not
// clamped to the surface's domain: points whose projections fall outside the
// visible patch resolve to parameters outside the domain rectangle. That is
// the property the rest of the pipeline depends on, since cutting curves
// legitimately overhang the surface edge.
//
// The zero value is not usable; create Projectors with NewProjector.
type Projector struct {
	// Tol is the residual below which a sample is considered converged.
	Tol float64

	// CoarseTol is the residual below which a stalled iteration is still
	// accepted as a best-effort result rather than a failure.
	CoarseTol float64

	// LineLength is the half-length of the segment sampled along the
	// projection line when seeding the iteration. It should exceed the
	// scene scale.
	LineLength float64

	// Damping scales each Gauss-Newton update.
	Damping float64

	// MaxIter bounds the iteration count, guaranteeing termination on
	// pathological input.
	MaxIter int

	// SeedSamples is the number of points sampled along the projection
	// line for the initial guess.
	SeedSamples int

	Log logrus.FieldLogger
}

// NewProjector returns a Projector with the default numerical parameters.
// If log is nil, logging is discarded.
func NewProjector(log logrus.FieldLogger) *Projector {
	if log == nil {
		log = discardLogger()
	}
	return &Projector{
		Tol:         defaultProjectTol,
		CoarseTol:   defaultProjectCoarseTol,
		LineLength:  defaultProjectLine,
		Damping:     defaultProjectDamping,
		MaxIter:     defaultProjectMaxIter,
		SeedSamples: defaultProjectSeeds,
		Log:         log,
	}
}

// closestOnLine returns the point on the line through origin with unit
// direction dir that is closest to p.
func closestOnLine(origin, dir, p r3.Vec) r3.Vec {
	t := r3.Dot(r3.Sub(p, origin), dir)
	return r3.Add(origin, r3.Scale(t, dir))
}

// lineResidual returns the distance from the surface point at (u,v) to the
// projection line, along with the evaluated surface point and its
// closest-point target on the line.
func lineResidual(s Surface, u, v float64, origin, dir r3.Vec) (surfPt, target r3.Vec, dist float64) {
	surfPt = s.Evaluate(u, v)
	target = closestOnLine(origin, dir, surfPt)
	return surfPt, target, r3.Norm(r3.Sub(target, surfPt))
}

// Project solves for the surface parameters (u,v) such that the surface
// point lies on the infinite line through point along direction. The
// direction need not be normalized; a zero direction is an input error.
//
// The same (point, direction, surface) inputs always produce the same
// result: seeding and iteration are fully deterministic.
func (pj *Projector) Project(point, direction r3.Vec, surface Surface) (ProjectedSample, error) {
	dir, err := normalizeDirection(direction)
	if err != nil {
		return ProjectedSample{}, err
	}

	u, v := pj.seed(point, dir, surface)

	dom := surface.Domain()
	du := math.Abs(dom.Max.X-dom.Min.X) * fdStepFraction
	dv := math.Abs(dom.Max.Y-dom.Min.Y) * fdStepFraction
	if du == 0 {
		du = fdStepFraction
	}
	if dv == 0 {
		dv = fdStepFraction
	}

	var dist float64
	for iter := 0; iter < pj.MaxIter; iter++ {
		var surfPt, target r3.Vec
		surfPt, target, dist = lineResidual(surface, u, v, point, dir)
		if dist < pj.Tol {
			return ProjectedSample{U: u, V: v, Point: surfPt, Residual: dist}, nil
		}

		residual := r3.Sub(target, surfPt)

		// Symmetric finite-difference estimates of dS/du and dS/dv.
		dSdu := r3.Scale(1/(2*du), r3.Sub(surface.Evaluate(u+du, v), surface.Evaluate(u-du, v)))
		dSdv := r3.Scale(1/(2*dv), r3.Sub(surface.Evaluate(u, v+dv), surface.Evaluate(u, v-dv)))

		// Normal equations (JᵀJ)Δ = Jᵀr for the 3×2 Jacobian [dS/du | dS/dv].
		a11 := r3.Dot(dSdu, dSdu)
		a12 := r3.Dot(dSdu, dSdv)
		a22 := r3.Dot(dSdv, dSdv)
		jtj := mat.NewDense(2, 2, []float64{a11, a12, a12, a22})
		jtr := mat.NewVecDense(2, []float64{r3.Dot(dSdu, residual), r3.Dot(dSdv, residual)})

		if math.Abs(mat.Det(jtj)) < singularDetTol {
			// Degenerate parameterization at this (u,v); accept the
			// current iterate if it is at least coarsely on the line.
			if dist < pj.CoarseTol {
				pj.Log.WithFields(logrus.Fields{"u": u, "v": v, "residual": dist}).
					Debug("projection accepted at singular Jacobian")
				return ProjectedSample{U: u, V: v, Point: surfPt, Residual: dist}, nil
			}
			return ProjectedSample{}, &ProjectionError{Point: point, Residual: dist}
		}

		var delta mat.VecDense
		if err := delta.SolveVec(jtj, jtr); err != nil {
			if dist < pj.CoarseTol {
				return ProjectedSample{U: u, V: v, Point: surfPt, Residual: dist}, nil
			}
			return ProjectedSample{}, &ProjectionError{Point: point, Residual: dist}
		}

		u += delta.AtVec(0) * pj.Damping
		v += delta.AtVec(1) * pj.Damping
	}

	// Out of iterations: accept the final iterate if it is coarsely on
	// the line, otherwise report failure for this sample.
	surfPt, _, dist := lineResidual(surface, u, v, point, dir)
	if dist < pj.CoarseTol {
		pj.Log.WithFields(logrus.Fields{"u": u, "v": v, "residual": dist}).
			Debug("projection accepted after iteration cap")
		return ProjectedSample{U: u, V: v, Point: surfPt, Residual: dist}, nil
	}
	return ProjectedSample{}, &ProjectionError{Point: point, Residual: dist}
}

// seed chooses the initial (u,v) by sampling points along the projection
// line through point and keeping the inverse-mapped parameters whose surface
// point lies closest to the line. ApproxParameter clamps to the domain, but
// a clamped guess is fine here: the iteration escapes the clamp.
func (pj *Projector) seed(point, dir r3.Vec, surface Surface) (u, v float64) {
	dom := surface.Domain()
	u = (dom.Min.X + dom.Max.X) / 2
	v = (dom.Min.Y + dom.Max.Y) / 2
	best := math.Inf(1)

	try := func(p r3.Vec) {
		tu, tv := surface.ApproxParameter(p)
		_, _, dist := lineResidual(surface, tu, tv, point, dir)
		if dist < best {
			best = dist
			u, v = tu, tv
		}
	}

	try(point)
	n := pj.SeedSamples
	if n < 2 {
		n = 2
	}
	p1 := r3.Sub(point, r3.Scale(pj.LineLength, dir))
	step := r3.Scale(2*pj.LineLength/float64(n-1), dir)
	for i := 0; i < n; i++ {
		try(r3.Add(p1, r3.Scale(float64(i), step)))
	}
	return u, v
}

// discardLogger returns a logger that drops everything.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(nullWriter{})
	return l
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

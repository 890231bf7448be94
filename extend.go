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

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"
)

// An ExtensionMode selects how curve ends are lengthened when their
// projection does not adequately cross the surface.
type ExtensionMode int

const (
	// ExtendNone leaves curves unmodified.
	ExtendNone ExtensionMode = iota

	// ExtendToBoundary lengthens each end by half the surface's bounding
	// diagonal, a margin guaranteeing the extended curve crosses fully
	// outside the surface when swept into a cutting tool.
	ExtendToBoundary

	// ExtendCustom lengthens each end by ExtensionPolicy.Distance.
	ExtendCustom
)

func (m ExtensionMode) String() string {
	switch m {
	case ExtendNone:
		return "none"
	case ExtendToBoundary:
		return "boundary"
	case ExtendCustom:
		return "custom"
	default:
		return fmt.Sprintf("ExtensionMode(%d)", int(m))
	}
}

// An ExtensionPolicy describes whether and how far to extend curve ends.
type ExtensionPolicy struct {
	Mode ExtensionMode

	// Distance is the per-end extension length under ExtendCustom,
	// ignored otherwise.
	Distance float64
}

// An ExtensionError reports that a curve could not be extended. It is
// recoverable: the pipeline falls back to the unmodified curve.
type ExtensionError struct {
	Reason string
}

func (e *ExtensionError) Error() string {
	return "surftrim: curve extension failed: " + e.Reason
}

// tangentStepFraction is the parameter-range fraction used for the
// finite-difference tangent estimate at a curve end.
const tangentStepFraction = 1e-4

// An Extender lengthens curve ends by straight tangent continuations.
type Extender struct {
	Log logrus.FieldLogger
}

// NewExtender returns an Extender. If log is nil, logging is discarded.
func NewExtender(log logrus.FieldLogger) *Extender {
	if log == nil {
		log = discardLogger()
	}
	return &Extender{Log: log}
}

// Extend returns curve lengthened at both ends according to policy. The
// original interior shape and parameterization are preserved exactly; the
// extensions join the original endpoints with positional continuity.
//
// On failure (degenerate tangent, zero-length curve) the original curve is
// returned together with an *ExtensionError; the error is a recoverable
// warning, never a reason to abort a trim request.
func (e *Extender) Extend(curve Curve, policy ExtensionPolicy, surface Surface) (Curve, error) {
	if policy.Mode == ExtendNone {
		return curve, nil
	}

	var dist float64
	switch policy.Mode {
	case ExtendToBoundary:
		dist = 0.5 * surface.Diagonal()
	case ExtendCustom:
		dist = policy.Distance
	default:
		return curve, &ExtensionError{Reason: fmt.Sprintf("unknown extension mode %v", policy.Mode)}
	}
	if dist <= 0 {
		return curve, &ExtensionError{Reason: fmt.Sprintf("non-positive extension distance %g", dist)}
	}

	t0, t1 := curve.Range()
	if t1 <= t0 || curve.Length() <= 0 {
		return curve, &ExtensionError{Reason: "zero-length curve"}
	}

	h := (t1 - t0) * tangentStepFraction
	startTan := r3.Scale(1/h, r3.Sub(curve.Evaluate(t0+h), curve.Evaluate(t0)))
	endTan := r3.Scale(1/h, r3.Sub(curve.Evaluate(t1), curve.Evaluate(t1-h)))
	if r3.Norm(startTan) < 1e-12 || r3.Norm(endTan) < 1e-12 {
		return curve, &ExtensionError{Reason: "degenerate end tangent"}
	}

	ext := &extendedCurve{
		inner:    curve,
		t0:       t0,
		t1:       t1,
		startDir: r3.Unit(startTan),
		endDir:   r3.Unit(endTan),
		startLen: dist,
		endLen:   dist,
	}
	e.Log.WithFields(logrus.Fields{
		"mode":     policy.Mode.String(),
		"distance": dist,
		"length":   ext.Length(),
	}).Debug("curve extended")
	return ext, nil
}

// An extendedCurve wraps a curve with straight tangent continuations at
// both ends. Within [t0, t1] it defers to the inner curve unchanged; the
// extensions are parameterized by arc length, so the full range is
// [t0-startLen, t1+endLen].
type extendedCurve struct {
	inner            Curve
	t0, t1           float64
	startDir, endDir r3.Vec // unit tangents at the original endpoints
	startLen, endLen float64
}

var _ Curve = (*extendedCurve)(nil)

func (c *extendedCurve) Range() (float64, float64) {
	return c.t0 - c.startLen, c.t1 + c.endLen
}

func (c *extendedCurve) Evaluate(t float64) r3.Vec {
	switch {
	case t < c.t0:
		return r3.Add(c.inner.Evaluate(c.t0), r3.Scale(t-c.t0, c.startDir))
	case t > c.t1:
		return r3.Add(c.inner.Evaluate(c.t1), r3.Scale(t-c.t1, c.endDir))
	default:
		return c.inner.Evaluate(t)
	}
}

func (c *extendedCurve) Discretize(n int) []r3.Vec {
	if n < 2 {
		n = 2
	}
	lo, hi := c.Range()
	pts := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		t := lo + (hi-lo)*float64(i)/float64(n-1)
		pts[i] = c.Evaluate(t)
	}
	return pts
}

func (c *extendedCurve) Length() float64 {
	return c.inner.Length() + c.startLen + c.endLen
}

// Identity forwards the inner identity, tagged with the extension lengths,
// so cached split results distinguish extended from unextended tools.
func (c *extendedCurve) Identity() string {
	return fmt.Sprintf("ext(%s,%g,%g)", identity(c.inner), c.startLen, c.endLen)
}

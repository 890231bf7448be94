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
	"fmt"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"
)

// A State is the planner's position in the trim pipeline. States advance
// strictly forward within one request; a new request restarts from
// StateIdle and discards all prior intermediate results.
type State int

const (
	StateIdle State = iota
	StateCoverageChecked
	StateExtended
	StateSplit
	StateSelected
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCoverageChecked:
		return "coverage-checked"
	case StateExtended:
		return "extended"
	case StateSplit:
		return "split"
	case StateSelected:
		return "selected"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// defaultCacheSize is the number of split results kept in the planner's
// memory cache.
const defaultCacheSize = 16

// Config carries the engine's tunable parameters. The zero value selects
// defaults throughout; debug output is enabled by supplying a Log.
type Config struct {
	// Projector parameters; zero values select the defaults documented
	// on Projector.
	ProjectTol       float64
	ProjectCoarseTol float64
	ProjectMaxIter   int

	// CoverageRule selects the adequacy heuristic (default UVRule).
	CoverageRule CoverageRule

	// CoverageSamples is the per-curve sample count for coverage
	// analysis (minimum and default 50).
	CoverageSamples int

	// SplitTol is the boolean tolerance as a fraction of scene scale
	// (default 1e-6).
	SplitTol float64

	// MeshResolution is the per-axis preview tessellation resolution
	// (default 64).
	MeshResolution int

	// CacheSize is the number of split results kept in memory
	// (default 16).
	CacheSize int

	// Kernel overrides the built-in UV-space boolean kernel.
	Kernel SplitKernel

	// Log receives debug and warning output. Nil discards.
	Log logrus.FieldLogger
}

// A TrimRequest is one complete trim problem: the target surface, the
// cutting curves, the projection direction, the point identifying the
// region to remove, and the extension policy.
type TrimRequest struct {
	Surface        Surface
	Curves         []Curve
	Direction      r3.Vec
	SelectionPoint r3.Vec
	Policy         ExtensionPolicy
}

// A TrimmedRegion is the outcome of a successful trim: the selected region
// (the one the selection point identifies, conventionally the part to
// remove), its index, the full split result it came from, the coverage
// verdict, and any recoverable warnings raised along the way.
type TrimmedRegion struct {
	Region   *Region
	Index    int
	Split    *SplitResult
	Verdict  CoverageVerdict
	Warnings []string
}

// A Planner orchestrates the trim pipeline: coverage analysis, optional
// curve extension, splitting, and region selection. Requests are
// serialized: a planner never runs two pipelines concurrently, and the
// expensive split step is cached per (surface, curve set, direction) with
// single-flight deduplication, since splitting does not depend on the
// selection point.
type Planner struct {
	projector *Projector
	analyzer  *Analyzer
	extender  *Extender
	splitter  *Splitter
	selector  *Selector

	meshResolution int
	log            logrus.FieldLogger

	mu    sync.Mutex // serializes pipeline runs
	state State

	cacheOnce sync.Once
	cache     *requestcache.Cache
	cacheSize int
}

// NewPlanner assembles a planner from cfg.
func NewPlanner(cfg Config) *Planner {
	log := cfg.Log
	if log == nil {
		log = discardLogger()
	}

	pj := NewProjector(log)
	if cfg.ProjectTol > 0 {
		pj.Tol = cfg.ProjectTol
	}
	if cfg.ProjectCoarseTol > 0 {
		pj.CoarseTol = cfg.ProjectCoarseTol
	}
	if cfg.ProjectMaxIter > 0 {
		pj.MaxIter = cfg.ProjectMaxIter
	}

	an := NewAnalyzer(pj, log)
	an.Rule = cfg.CoverageRule
	if cfg.CoverageSamples > 0 {
		an.Samples = cfg.CoverageSamples
	}

	sp := NewSplitter(pj, log)
	if cfg.SplitTol > 0 {
		sp.Tol = cfg.SplitTol
	}
	if cfg.Kernel != nil {
		sp.Kernel = cfg.Kernel
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	meshRes := cfg.MeshResolution
	if meshRes <= 0 {
		meshRes = defaultMeshResolution
	}

	return &Planner{
		projector:      pj,
		analyzer:       an,
		extender:       NewExtender(log),
		splitter:       sp,
		selector:       NewSelector(log),
		meshResolution: meshRes,
		log:            log,
		state:          StateIdle,
		cacheSize:      cacheSize,
	}
}

// Projector returns the planner's projector, for callers that need raw
// projections (for example diagnostic overlays).
func (p *Planner) Projector() *Projector { return p.projector }

// State returns the planner's position in the most recent pipeline run.
func (p *Planner) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// CheckCoverage reports whether the curves' projections adequately cross
// the surface. UI layers use it to decide whether to offer extension
// controls; it is also the first stage of PlanTrim.
func (p *Planner) CheckCoverage(ctx context.Context, curves []Curve, surface Surface, direction r3.Vec) (CoverageVerdict, error) {
	if err := ctx.Err(); err != nil {
		return CoverageVerdict{}, err
	}
	return p.analyzer.AnalyzeAll(curves, surface, direction)
}

// splitRequest is the cache payload for the split step.
type splitRequest struct {
	surface   Surface
	curves    []Curve
	direction r3.Vec
}

// splitKey builds the cache key for a split: surface identity, curve-set
// identity, and direction. The selection point is deliberately excluded:
// re-picking a region must not recompute the split.
func splitKey(surface Surface, curves []Curve, direction r3.Vec) string {
	parts := make([]string, 0, len(curves)+2)
	parts = append(parts, identity(surface))
	for _, c := range curves {
		parts = append(parts, identity(c))
	}
	parts = append(parts, fmt.Sprintf("dir(%g,%g,%g)", direction.X, direction.Y, direction.Z))
	return strings.Join(parts, "|")
}

// cachedSplit runs the splitter through the deduplicating cache. The cache
// is keyed so that any change to the surface, curve set, or direction
// misses and recomputes; a single processor goroutine preserves the
// engine's one-computation-at-a-time discipline.
func (p *Planner) cachedSplit(ctx context.Context, surface Surface, curves []Curve, direction r3.Vec) (*SplitResult, error) {
	p.cacheOnce.Do(func() {
		p.cache = requestcache.NewCache(func(ctx context.Context, payload interface{}) (interface{}, error) {
			r := payload.(splitRequest)
			return p.splitter.Split(ctx, r.surface, r.curves, r.direction)
		}, 1, requestcache.Deduplicate(), requestcache.Memory(p.cacheSize))
	})
	req := p.cache.NewRequest(ctx,
		splitRequest{surface: surface, curves: curves, direction: direction},
		splitKey(surface, curves, direction))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(*SplitResult), nil
}

// PlanTrim runs the full pipeline: analyze coverage, optionally extend the
// curves, split the surface, and select the region identified by the
// selection point. It is a pure function of its inputs aside from the
// split cache; per-sample and per-curve failures surface as warnings, and
// only conditions that make the next stage impossible (degenerate split,
// unmatched selection point, zero direction) fail the request.
func (p *Planner) PlanTrim(ctx context.Context, req TrimRequest) (*TrimmedRegion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateIdle
	fail := func(err error) (*TrimmedRegion, error) {
		p.state = StateFailed
		p.log.WithField("error", err).Debug("trim failed")
		return nil, err
	}

	dir, err := normalizeDirection(req.Direction)
	if err != nil {
		return fail(err)
	}
	if len(req.Curves) == 0 {
		return fail(fmt.Errorf("surftrim: no cutting curves supplied"))
	}

	out := &TrimmedRegion{}

	verdict, err := p.analyzer.AnalyzeAll(req.Curves, req.Surface, dir)
	if err != nil {
		return fail(err)
	}
	out.Verdict = verdict
	p.state = StateCoverageChecked
	for _, d := range verdict.PerCurve {
		if d.Err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("curve %d: %v", d.Curve, d.Err))
		}
	}

	curves := req.Curves
	if !verdict.Adequate && req.Policy.Mode != ExtendNone {
		extended := make([]Curve, len(curves))
		for i, c := range curves {
			ec, err := p.extender.Extend(c, req.Policy, req.Surface)
			if err != nil {
				// Recoverable: fall back to the original curve.
				out.Warnings = append(out.Warnings, fmt.Sprintf("curve %d: %v", i, err))
			}
			extended[i] = ec
		}
		curves = extended
		p.state = StateExtended
	}

	split, err := p.cachedSplit(ctx, req.Surface, curves, dir)
	if err != nil {
		return fail(err)
	}
	out.Split = split
	p.state = StateSplit

	idx, err := p.selector.Select(split, req.SelectionPoint, req.Surface)
	if err != nil {
		return fail(err)
	}
	p.state = StateSelected

	out.Index = idx
	out.Region = split.Regions[idx]
	p.state = StateDone
	p.log.WithFields(logrus.Fields{
		"regions":  len(split.Regions),
		"selected": idx,
		"warnings": len(out.Warnings),
	}).Debug("trim complete")
	return out, nil
}

// PreviewRegions runs the same pipeline as PlanTrim and returns the
// selected region and the remainder as renderable meshes: deleteMesh is
// the region the selection point identifies (the part to remove), keepMesh
// is everything else. The result is derived purely from the request.
func (p *Planner) PreviewRegions(ctx context.Context, req TrimRequest) (deleteMesh, keepMesh *Mesh, err error) {
	trimmed, err := p.PlanTrim(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	deleteMesh = TessellateRegion(trimmed.Region, p.meshResolution)
	keepMesh = &Mesh{}
	for i, r := range trimmed.Split.Regions {
		if i == trimmed.Index {
			continue
		}
		keepMesh.append(TessellateRegion(r, p.meshResolution))
	}
	return deleteMesh, keepMesh, nil
}

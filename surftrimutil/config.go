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
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/surftrim"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"
)

// plannerConfig creates an engine configuration from the information
// available in cfg.
func plannerConfig(cfg *viper.Viper) (surftrim.Config, error) {
	rule, err := coverageRule(cfg.GetString("Coverage.Rule"))
	if err != nil {
		return surftrim.Config{}, err
	}
	log, err := newLogger(cfg.GetString("LogLevel"))
	if err != nil {
		return surftrim.Config{}, err
	}
	return surftrim.Config{
		ProjectTol:       cfg.GetFloat64("Project.Tolerance"),
		ProjectCoarseTol: cfg.GetFloat64("Project.CoarseTolerance"),
		ProjectMaxIter:   cfg.GetInt("Project.MaxIterations"),
		CoverageRule:     rule,
		CoverageSamples:  cfg.GetInt("Coverage.Samples"),
		SplitTol:         cfg.GetFloat64("Split.Tolerance"),
		MeshResolution:   cfg.GetInt("Mesh.Resolution"),
		CacheSize:        cfg.GetInt("CacheSize"),
		Log:              log,
	}, nil
}

// sceneRequest assembles a trim request from the scene and the
// configuration overrides.
func sceneRequest(scene *Scene, cfg *viper.Viper) (surftrim.TrimRequest, error) {
	req := surftrim.TrimRequest{
		Surface:        scene.Surface,
		Curves:         scene.Curves,
		Direction:      scene.Direction,
		SelectionPoint: scene.SelectionPoint,
	}
	pt, ok, err := selectionPoint(cfg)
	if err != nil {
		return req, err
	}
	if ok {
		req.SelectionPoint = pt
	}
	policy, err := extensionPolicy(cfg)
	if err != nil {
		return req, err
	}
	req.Policy = policy
	return req, nil
}

// selectionPoint reads the SelectionPoint override. The value may arrive
// as a string slice from the command line or as an untyped list from a
// configuration file, so it is converted through cast.
func selectionPoint(cfg *viper.Viper) (r3.Vec, bool, error) {
	raw := cfg.Get("SelectionPoint")
	if raw == nil {
		return r3.Vec{}, false, nil
	}
	coords, err := cast.ToFloat64SliceE(raw)
	if err != nil {
		return r3.Vec{}, false, fmt.Errorf("surftrim: invalid SelectionPoint: %v", err)
	}
	switch len(coords) {
	case 0:
		return r3.Vec{}, false, nil
	case 3:
		return r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}, true, nil
	default:
		return r3.Vec{}, false, fmt.Errorf("surftrim: SelectionPoint must have 3 coordinates, got %d", len(coords))
	}
}

func extensionPolicy(cfg *viper.Viper) (surftrim.ExtensionPolicy, error) {
	var p surftrim.ExtensionPolicy
	switch mode := strings.ToLower(cfg.GetString("Extension.Mode")); mode {
	case "", "none":
		p.Mode = surftrim.ExtendNone
	case "boundary":
		p.Mode = surftrim.ExtendToBoundary
	case "custom":
		p.Mode = surftrim.ExtendCustom
		p.Distance = cfg.GetFloat64("Extension.Distance")
		if p.Distance <= 0 {
			return p, fmt.Errorf("surftrim: Extension.Distance must be positive for custom extension, got %g", p.Distance)
		}
	default:
		return p, fmt.Errorf("surftrim: unknown Extension.Mode %q", mode)
	}
	return p, nil
}

func coverageRule(name string) (surftrim.CoverageRule, error) {
	switch strings.ToLower(name) {
	case "", "uv":
		return surftrim.UVRule, nil
	case "extent":
		return surftrim.ExtentRule, nil
	default:
		return surftrim.UVRule, fmt.Errorf("surftrim: unknown Coverage.Rule %q", name)
	}
}

func newLogger(level string) (logrus.FieldLogger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("surftrim: invalid LogLevel %q: %v", level, err)
	}
	log := logrus.New()
	log.SetLevel(lvl)
	return log, nil
}

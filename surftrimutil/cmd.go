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

// Package surftrimutil holds the configuration surface and command-line
// interface of the surftrim engine.
package surftrimutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spatialmodel/surftrim"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to surftrim.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the verbosity of diagnostic output. One of
              'panic', 'fatal', 'error', 'warning', 'info', 'debug' or
              'trace'.`,
			defaultVal: "warning",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SceneFile",
			usage: `
              SceneFile is the path to a JSON scene file holding the target
              surface, the cutting curves, the projection direction and the
              selection point.`,
			shorthand:  "f",
			defaultVal: "scene.json",
			flagsets:   []*pflag.FlagSet{coverageCmd.Flags(), trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Project.Tolerance",
			usage: `
              Project.Tolerance is the 3-D distance below which a projection
              iterate is accepted as converged.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{coverageCmd.Flags(), trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Project.CoarseTolerance",
			usage: `
              Project.CoarseTolerance is the 3-D distance below which a
              projection that ran out of iterations is still accepted as a
              coarse hit.`,
			defaultVal: 50.0,
			flagsets:   []*pflag.FlagSet{coverageCmd.Flags(), trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Project.MaxIterations",
			usage: `
              Project.MaxIterations caps the Gauss-Newton iteration count of
              a single projection.`,
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{coverageCmd.Flags(), trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Coverage.Rule",
			usage: `
              Coverage.Rule selects the curve-adequacy heuristic. 'uv' judges
              curves in surface parameter space; 'extent' compares projected
              extents in a plane perpendicular to the projection direction.`,
			defaultVal: "uv",
			flagsets:   []*pflag.FlagSet{coverageCmd.Flags(), trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Coverage.Samples",
			usage: `
              Coverage.Samples is the number of points sampled along each
              curve during coverage analysis.`,
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{coverageCmd.Flags(), trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Split.Tolerance",
			usage: `
              Split.Tolerance is the boolean-operation tolerance as a
              fraction of the scene scale.`,
			defaultVal: 1e-6,
			flagsets:   []*pflag.FlagSet{trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Extension.Mode",
			usage: `
              Extension.Mode controls what happens when the cutting curves do
              not span the surface: 'none' leaves them alone, 'boundary'
              extends each end tangentially by half the surface diagonal,
              'custom' extends by Extension.Distance.`,
			defaultVal: "none",
			flagsets:   []*pflag.FlagSet{trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Extension.Distance",
			usage: `
              Extension.Distance is the per-end extension length used when
              Extension.Mode is 'custom'.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "SelectionPoint",
			usage: `
              SelectionPoint overrides the scene file's selection point.
              Specify as three coordinates, e.g. --SelectionPoint=0.2,0.3,0.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize is the number of split results kept in memory.`,
			defaultVal: 16,
			flagsets:   []*pflag.FlagSet{trimCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Mesh.Resolution",
			usage: `
              Mesh.Resolution is the per-axis grid resolution used to
              tessellate preview meshes.`,
			defaultVal: 64,
			flagsets:   []*pflag.FlagSet{previewCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile, if set, receives a UV-space diagnostic plot of the
              domain, the projected curves and the region outlines.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{trimCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path the preview meshes are written to.`,
			shorthand:  "o",
			defaultVal: "preview.json",
			flagsets:   []*pflag.FlagSet{previewCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SURFTRIM")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(coverageCmd)
	Root.AddCommand(trimCmd)
	Root.AddCommand(previewCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("surftrim: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "surftrim",
	Short: "A surface-projection and region-trimming engine.",
	Long: `surftrim projects cutting curves onto a parametric surface, splits
the surface along the projections, and selects one of the resulting
regions with a point.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format
'SURFTRIM_var' where 'var' is the name of the variable to be set. Refer to
https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of surftrim.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("surftrim v%s\n", surftrim.Version)
	},
	DisableAutoGenTag: true,
}

// coverageCmd reports whether the scene's curves adequately span the
// target surface.
var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Check curve coverage of the target surface.",
	Long: `coverage projects the scene's cutting curves onto the target surface
and reports, per curve, whether the projection spans the whole visible
patch. A trim on an inadequately covered surface would leave the patch in
one piece.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := LoadScene(os.ExpandEnv(Cfg.GetString("SceneFile")))
		if err != nil {
			return err
		}
		conf, err := plannerConfig(Cfg)
		if err != nil {
			return err
		}
		p := surftrim.NewPlanner(conf)
		verdict, err := p.CheckCoverage(context.Background(), scene.Curves, scene.Surface, scene.Direction)
		if err != nil {
			return err
		}
		for _, d := range verdict.PerCurve {
			if d.Err != nil {
				fmt.Printf("curve %d: excluded: %v\n", d.Curve, d.Err)
				continue
			}
			fmt.Printf("curve %d: adequate=%t converged=%d failed=%d ucoverage=%.3f vcoverage=%.3f\n",
				d.Curve, d.Adequate, d.Converged, d.Failed, d.UCoverage, d.VCoverage)
		}
		fmt.Printf("coverage adequate: %t\n", verdict.Adequate)
		return nil
	},
	DisableAutoGenTag: true,
}

// trimCmd runs the full trim pipeline and reports the selected region.
var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Split the surface and select a region.",
	Long: `trim runs the full pipeline on the scene: coverage analysis, optional
curve extension, splitting, and selection of the region containing the
selection point. The selected region is conventionally the part to
remove.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := LoadScene(os.ExpandEnv(Cfg.GetString("SceneFile")))
		if err != nil {
			return err
		}
		conf, err := plannerConfig(Cfg)
		if err != nil {
			return err
		}
		req, err := sceneRequest(scene, Cfg)
		if err != nil {
			return err
		}
		p := surftrim.NewPlanner(conf)
		result, err := p.PlanTrim(context.Background(), req)
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		fmt.Printf("split into %d regions; selected region %d (area %.6g)\n",
			len(result.Split.Regions), result.Index, result.Region.Area())
		if plotFile := os.ExpandEnv(Cfg.GetString("PlotFile")); plotFile != "" {
			err := surftrim.WriteUVDiagnostic(plotFile, scene.Surface, scene.Curves,
				req.Direction, p.Projector(), result.Split)
			if err != nil {
				return fmt.Errorf("surftrim: writing diagnostic plot: %v", err)
			}
			fmt.Printf("wrote diagnostic plot to %s\n", plotFile)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// previewCmd tessellates the trim outcome into meshes and writes them out.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Write preview meshes for the trim outcome.",
	Long: `preview runs the trim pipeline and tessellates the outcome into two
triangle meshes, one for the selected (to be removed) region and one for
the regions that remain. The meshes are written to OutputFile as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := LoadScene(os.ExpandEnv(Cfg.GetString("SceneFile")))
		if err != nil {
			return err
		}
		conf, err := plannerConfig(Cfg)
		if err != nil {
			return err
		}
		req, err := sceneRequest(scene, Cfg)
		if err != nil {
			return err
		}
		p := surftrim.NewPlanner(conf)
		deleteMesh, keepMesh, err := p.PreviewRegions(context.Background(), req)
		if err != nil {
			return err
		}
		out := struct {
			Delete *surftrim.Mesh `json:"delete"`
			Keep   *surftrim.Mesh `json:"keep"`
		}{deleteMesh, keepMesh}
		f, err := os.Create(os.ExpandEnv(Cfg.GetString("OutputFile")))
		if err != nil {
			return err
		}
		defer f.Close()
		e := json.NewEncoder(f)
		e.SetIndent("", "\t")
		if err := e.Encode(out); err != nil {
			return fmt.Errorf("surftrim: writing preview meshes: %v", err)
		}
		fmt.Printf("wrote %d delete and %d keep triangles to %s\n",
			deleteMesh.TriangleCount(), keepMesh.TriangleCount(), Cfg.GetString("OutputFile"))
		return nil
	},
	DisableAutoGenTag: true,
}

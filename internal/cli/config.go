package cli

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/pipeline"
)

// renderFlags holds the values bound to the render command's flags.
type renderFlags struct {
	pipeline.Options
	seed    uint64
	rimSeed uint64
}

// flagSetters copies one flag's value from the parsed flags into options.
// Only flags the user set explicitly are applied, so they override the
// config file without resetting keys it defines.
var flagSetters = map[string]func(dst *pipeline.Options, f *renderFlags){
	"jobs":           func(d *pipeline.Options, f *renderFlags) { d.Jobs = f.Jobs },
	"batch-size":     func(d *pipeline.Options, f *renderFlags) { d.BatchSize = f.BatchSize },
	"x-cells":        func(d *pipeline.Options, f *renderFlags) { d.XCells = f.XCells },
	"y-cells":        func(d *pipeline.Options, f *renderFlags) { d.YCells = f.YCells },
	"width":          func(d *pipeline.Options, f *renderFlags) { d.Width = f.Width },
	"height":         func(d *pipeline.Options, f *renderFlags) { d.Height = f.Height },
	"units":          func(d *pipeline.Options, f *renderFlags) { d.Units = f.Units },
	"stroke-width":   func(d *pipeline.Options, f *renderFlags) { d.StrokeWidth = f.StrokeWidth },
	"value-low":      func(d *pipeline.Options, f *renderFlags) { d.ValueLow = f.ValueLow },
	"value-high":     func(d *pipeline.Options, f *renderFlags) { d.ValueHigh = f.ValueHigh },
	"cell-z-coord":   func(d *pipeline.Options, f *renderFlags) { d.CellZ = f.CellZ },
	"scale":          func(d *pipeline.Options, f *renderFlags) { d.Scale = f.Scale },
	"scale-mode":     func(d *pipeline.Options, f *renderFlags) { d.ScaleMode = f.ScaleMode },
	"seed":           func(d *pipeline.Options, f *renderFlags) { d.Seed = &f.seed },
	"rim-seed":       func(d *pipeline.Options, f *renderFlags) { d.RimSeed = &f.rimSeed },
	"rim-width":      func(d *pipeline.Options, f *renderFlags) { d.RimWidth = f.RimWidth },
	"only-rim":       func(d *pipeline.Options, f *renderFlags) { d.OnlyRim = f.OnlyRim },
	"skip-rim":       func(d *pipeline.Options, f *renderFlags) { d.SkipRim = f.SkipRim },
	"transformable":  func(d *pipeline.Options, f *renderFlags) { d.Transformable = f.Transformable },
	"color-mode":     func(d *pipeline.Options, f *renderFlags) { d.ColorMode = f.ColorMode },
	"cell-mode":      func(d *pipeline.Options, f *renderFlags) { d.CellMode = f.CellMode },
	"offs-mode":      func(d *pipeline.Options, f *renderFlags) { d.OffsMode = f.OffsMode },
	"image":          func(d *pipeline.Options, f *renderFlags) { d.Image = f.Image },
	"format":         func(d *pipeline.Options, f *renderFlags) { d.Format = f.Format },
	"png-scale":      func(d *pipeline.Options, f *renderFlags) { d.PNGScale = f.PNGScale },
	"png-background": func(d *pipeline.Options, f *renderFlags) { d.PNGBackground = f.PNGBackground },
}

// loadConfig decodes a TOML config file over opts. Unknown keys are
// rejected so that typos do not pass silently.
func loadConfig(path string, opts *pipeline.Options) error {
	md, err := toml.DecodeFile(path, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// resolveOptions layers defaults, the config file (if any) and explicitly
// set flags, in that order of precedence.
func resolveOptions(flags *pflag.FlagSet, configPath string, f *renderFlags) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if configPath != "" {
		if err := loadConfig(configPath, &opts); err != nil {
			return pipeline.Options{}, err
		}
	}
	flags.Visit(func(fl *pflag.Flag) {
		if set, ok := flagSetters[fl.Name]; ok {
			set(&opts, f)
		}
	})
	return opts, nil
}

// Package pipeline turns a configuration into a rendered document.
//
// The pipeline has three stages:
//
//  1. Build: validate Options, load the optional source image and generate
//     the site field, resolving every mode name into its closed type.
//  2. Dispatch: render all cells in parallel into an output sink.
//  3. Finish: close the document and, for reproducible configurations,
//     store it in the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.CellMode = "pebble"
//	opts.Jobs = 8
//	result, err := runner.Execute(ctx, opts, os.Stdout)
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/render"
	"github.com/matzehuels/voronoisvg/pkg/render/sink"
	"github.com/matzehuels/voronoisvg/pkg/shape"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultWidth       = 512.0
	DefaultHeight      = 512.0
	DefaultUnits       = "px"
	DefaultStrokeWidth = 0.5
	DefaultCells       = 32
	DefaultValueLow    = 0.05
	DefaultValueHigh   = 0.95
	DefaultScale       = 0.9
	DefaultRimWidth    = 2
	DefaultJobs        = 1
	DefaultBatchSize   = 64
	DefaultPNGScale    = 1.0

	DefaultScaleMode = "constant"
	DefaultColorMode = "grayscale"
	DefaultCellMode  = "full"
	DefaultOffsMode  = "default"
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG}

// OffsModes lists the accepted site offset patterns.
var OffsModes = []string{"default", "honeycomb-x", "honeycomb-y", "image"}

// =============================================================================
// Options
// =============================================================================

// Options holds every knob of a render. It decodes from TOML config files
// and encodes to JSON for cache keys.
type Options struct {
	// Canvas
	Width       float64 `toml:"width" json:"width"`
	Height      float64 `toml:"height" json:"height"`
	Units       string  `toml:"units" json:"units"`
	StrokeWidth float64 `toml:"stroke_width" json:"stroke_width"`

	// Grid. Zero cell counts default to the image size, or DefaultCells.
	XCells int `toml:"x_cells" json:"x_cells"`
	YCells int `toml:"y_cells" json:"y_cells"`

	// Site field
	Seed          *uint64 `toml:"seed" json:"seed,omitempty"`
	RimSeed       *uint64 `toml:"rim_seed" json:"rim_seed,omitempty"`
	RimWidth      int     `toml:"rim_width" json:"rim_width"`
	Transformable bool    `toml:"transformable" json:"transformable"`
	OffsMode      string  `toml:"offs_mode" json:"offs_mode"`
	Image         string  `toml:"image" json:"image,omitempty"`

	// Cell selection
	OnlyRim bool `toml:"only_rim" json:"only_rim"`
	SkipRim bool `toml:"skip_rim" json:"skip_rim"`

	// Shapes and colours
	CellMode  string  `toml:"cell_mode" json:"cell_mode"`
	Scale     float64 `toml:"scale" json:"scale"`
	ScaleMode string  `toml:"scale_mode" json:"scale_mode"`
	ColorMode string  `toml:"color_mode" json:"color_mode"`
	ValueLow  float64 `toml:"value_low" json:"value_low"`
	ValueHigh float64 `toml:"value_high" json:"value_high"`
	CellZ     float64 `toml:"cell_z_coord" json:"cell_z_coord"`

	// Output
	Format   string  `toml:"format" json:"format"`
	PNGScale float64 `toml:"png_scale" json:"png_scale"`

	// PNGBackground is a hex colour filled behind png output. Empty leaves
	// uncovered pixels transparent.
	PNGBackground string `toml:"png_background" json:"png_background,omitempty"`

	// Execution. These never change the set of records.
	Jobs      int `toml:"jobs" json:"-"`
	BatchSize int `toml:"batch_size" json:"-"`

	Logger *log.Logger `toml:"-" json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options with every default filled in. Fields whose
// zero value is meaningful (value range, scale, stroke width) only get their
// defaults here.
func DefaultOptions() Options {
	return Options{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Units:       DefaultUnits,
		StrokeWidth: DefaultStrokeWidth,
		RimWidth:    DefaultRimWidth,
		OffsMode:    DefaultOffsMode,
		CellMode:    DefaultCellMode,
		Scale:       DefaultScale,
		ScaleMode:   DefaultScaleMode,
		ColorMode:   DefaultColorMode,
		ValueLow:    DefaultValueLow,
		ValueHigh:   DefaultValueHigh,
		Format:      FormatSVG,
		PNGScale:    DefaultPNGScale,
		Jobs:        DefaultJobs,
		BatchSize:   DefaultBatchSize,
	}
}

// SetDefaults fills fields whose zero value is not a valid setting. Cell
// counts are resolved later, once the image size is known.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Units == "" {
		o.Units = DefaultUnits
	}
	if o.OffsMode == "" {
		o.OffsMode = DefaultOffsMode
	}
	if o.CellMode == "" {
		o.CellMode = DefaultCellMode
	}
	if o.ScaleMode == "" {
		o.ScaleMode = DefaultScaleMode
	}
	if o.ColorMode == "" {
		o.ColorMode = DefaultColorMode
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Jobs <= 0 {
		o.Jobs = DefaultJobs
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
}

// ValidateAndSetDefaults applies defaults and validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Validate checks every field. It does not touch the file system; a
// missing image is reported by Build.
func (o *Options) Validate() error {
	if err := errors.ValidatePositiveFloat("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositiveFloat("height", o.Height); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("units", o.Units, sink.Units); err != nil {
		return err
	}
	if o.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "stroke width must not be negative, got %g", o.StrokeWidth)
	}
	if o.XCells < 0 || o.YCells < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cell counts must not be negative, got %dx%d", o.XCells, o.YCells)
	}
	if o.RimWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rim width must not be negative, got %d", o.RimWidth)
	}
	if o.OnlyRim && o.SkipRim {
		return errors.New(errors.ErrCodeInvalidConfig, "only-rim and skip-rim are mutually exclusive")
	}
	if o.Transformable && o.Width != o.Height {
		return errors.New(errors.ErrCodeInvalidConfig,
			"transformable output needs width == height, got %g and %g", o.Width, o.Height)
	}
	if err := errors.ValidateUnitRange("value low", o.ValueLow); err != nil {
		return err
	}
	if err := errors.ValidateUnitRange("value high", o.ValueHigh); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must not be negative, got %g", o.Scale)
	}
	if err := errors.ValidateOneOf("scale mode", o.ScaleMode, shape.ScaleCurveNames()); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("cell mode", o.CellMode, shape.Names()); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("color mode", o.ColorMode, render.ColorModeNames()); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("offs mode", o.OffsMode, OffsModes); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("format", o.Format, Formats); err != nil {
		return err
	}
	if err := errors.ValidatePositiveFloat("png scale", o.PNGScale); err != nil {
		return err
	}
	if o.PNGBackground != "" {
		if _, err := colorful.Hex(o.PNGBackground); err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "png background must be #rrggbb, got %q", o.PNGBackground)
		}
	}
	if o.Image == "" && o.ColorMode == "image-rgb" {
		return errors.New(errors.ErrCodeInvalidConfig, "color mode image-rgb needs an image")
	}
	if o.Image == "" && o.OffsMode == "image" {
		return errors.New(errors.ErrCodeInvalidConfig, "offs mode image needs an image")
	}
	if err := errors.ValidatePositive("jobs", o.Jobs); err != nil {
		return err
	}
	return errors.ValidatePositive("batch size", o.BatchSize)
}

// Cacheable reports whether the options fully determine the output: the
// interior seed is fixed and no image is read.
func (o *Options) Cacheable() bool {
	return o.Seed != nil && o.Image == ""
}

// CacheKeyOpts returns the options with execution-only fields cleared, so
// that renders differing only in parallelism share a key.
func (o *Options) CacheKeyOpts() Options {
	k := *o
	k.Jobs = 0
	k.BatchSize = 0
	k.Logger = nil
	k.validated = false
	return k
}

// Page returns the output page described by the options.
func (o *Options) Page() sink.Page {
	return sink.Page{Width: o.Width, Height: o.Height, Units: o.Units, StrokeWidth: o.StrokeWidth}
}

// NewDocument returns the output document for o.Format writing to w.
func (o *Options) NewDocument(w io.Writer) (sink.Document, error) {
	switch o.Format {
	case FormatSVG:
		return sink.NewSVG(w, o.Page()), nil
	case FormatPNG:
		opts := []sink.PNGOption{sink.WithScale(o.PNGScale)}
		if o.PNGBackground != "" {
			bg, err := colorful.Hex(o.PNGBackground)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "png background")
			}
			opts = append(opts, sink.WithBackground(bg))
		}
		return sink.NewPNG(w, o.Page(), opts...), nil
	}
	return nil, fmt.Errorf("unsupported format %q", o.Format)
}

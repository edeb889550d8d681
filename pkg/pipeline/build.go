package pipeline

import (
	"github.com/matzehuels/voronoisvg/pkg/clip"
	"github.com/matzehuels/voronoisvg/pkg/dispatch"
	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/render"
	"github.com/matzehuels/voronoisvg/pkg/sampler"
	"github.com/matzehuels/voronoisvg/pkg/shape"
	"github.com/matzehuels/voronoisvg/pkg/sitefield"
)

// Plan is a validated render ready for dispatch.
type Plan struct {
	XCells, YCells int
	Field          *sitefield.Field
	Emitter        *render.Emitter
	Dispatch       dispatch.Options
}

// Build resolves o into a Plan. The source image, if any, is loaded here so
// that a missing or undecodable file fails before any output is written.
func (o *Options) Build() (*Plan, error) {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var src sampler.Sampler
	xc, yc := o.XCells, o.YCells
	if o.Image != "" {
		im, err := sampler.Open(o.Image, xc, yc)
		if err != nil {
			return nil, err
		}
		xc, yc = im.Size()
		src = im
	}
	if xc == 0 {
		xc = DefaultCells
	}
	if yc == 0 {
		yc = DefaultCells
	}

	pattern, err := o.pattern(src)
	if err != nil {
		return nil, err
	}
	field, err := sitefield.New(sitefield.Config{
		XCells:        xc,
		YCells:        yc,
		Seed:          o.Seed,
		RimSeed:       o.RimSeed,
		RimWidth:      o.RimWidth,
		Transformable: o.Transformable,
		Pattern:       pattern,
	})
	if err != nil {
		return nil, err
	}

	curve, err := shape.ParseScaleCurve(o.ScaleMode)
	if err != nil {
		return nil, err
	}
	cellShape, err := shape.Parse(o.CellMode, o.Scale, curve)
	if err != nil {
		return nil, err
	}
	colors, err := render.ParseColorMode(o.ColorMode, render.ValueRange{Low: o.ValueLow, High: o.ValueHigh}, o.CellZ, src)
	if err != nil {
		return nil, err
	}

	canvas := clip.Canvas{Width: o.Width, Height: o.Height}
	return &Plan{
		XCells:  xc,
		YCells:  yc,
		Field:   field,
		Emitter: render.NewEmitter(field, canvas, cellShape, colors),
		Dispatch: dispatch.Options{
			XCells:    xc,
			YCells:    yc,
			Workers:   o.Jobs,
			BatchSize: o.BatchSize,
			RimWidth:  o.RimWidth,
			Filter:    o.rimFilter(),
			Logger:    o.Logger,
		},
	}, nil
}

func (o *Options) pattern(src sampler.Sampler) (sitefield.Pattern, error) {
	switch o.OffsMode {
	case "default":
		return sitefield.Jitter{}, nil
	case "honeycomb-x":
		return sitefield.HoneycombX{}, nil
	case "honeycomb-y":
		return sitefield.HoneycombY{}, nil
	case "image":
		if src == nil {
			return nil, errors.New(errors.ErrCodeImageUnavailable, "offs mode image needs an image")
		}
		return sitefield.ImageContour{Source: src}, nil
	}
	return nil, errors.ValidateOneOf("offs mode", o.OffsMode, OffsModes)
}

func (o *Options) rimFilter() dispatch.RimFilter {
	switch {
	case o.OnlyRim:
		return dispatch.OnlyRim
	case o.SkipRim:
		return dispatch.SkipRim
	}
	return dispatch.AllCells
}

package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/voronoisvg/pkg/cell"
	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/pipeline"
	"github.com/matzehuels/voronoisvg/pkg/render"
	"github.com/matzehuels/voronoisvg/pkg/render/sink"
	"github.com/matzehuels/voronoisvg/pkg/shape"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		configPath string
		noCache    bool
	)
	f := &renderFlags{Options: pipeline.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "render [output]",
		Short: "Render a Voronoi tessellation",
		Long: `Render a Voronoi tessellation of a jittered grid to SVG or PNG.

The output is written to the given file, or to stdout when it is omitted
or "-". Settings are read from built-in defaults, then from the TOML file
given with --config, then from explicitly set flags.

Renders with a fixed --seed and no --image are reproducible and cached
locally; repeated runs are served from the cache.`,
		Example: `  voronoisvg render out.svg --seed 7 -X 48 -Y 27 -W 1920 -H 1080
  voronoisvg render -C pebble -S 0.8 -Q sqrt -j 8 pebbles.svg
  voronoisvg render -i photo.jpg -M image-rgb -O image --format png photo.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) == 1 {
				output = args[0]
			}
			opts, err := resolveOptions(cmd.Flags(), configPath, f)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	bindRenderFlags(cmd.Flags(), f, &configPath, &noCache)
	cmd.MarkFlagsMutuallyExclusive("only-rim", "skip-rim")
	_ = cmd.MarkFlagFilename("config", "toml")
	_ = cmd.MarkFlagFilename("image")
	registerCompletions(cmd)

	return cmd
}

// bindRenderFlags registers the render flags on flags, binding them to f.
func bindRenderFlags(flags *pflag.FlagSet, f *renderFlags, configPath *string, noCache *bool) {
	flags.StringVar(configPath, "config", "", "TOML file with render settings")
	flags.BoolVar(noCache, "no-cache", false, "disable caching")

	// Execution
	flags.IntVarP(&f.Jobs, "jobs", "j", f.Jobs, "number of parallel workers")
	flags.IntVar(&f.BatchSize, "batch-size", f.BatchSize, "records a worker buffers before writing")

	// Canvas
	flags.IntVarP(&f.XCells, "x-cells", "X", 0, fmt.Sprintf("cells along x (default %d, or the image width)", pipeline.DefaultCells))
	flags.IntVarP(&f.YCells, "y-cells", "Y", 0, fmt.Sprintf("cells along y (default %d, or the image height)", pipeline.DefaultCells))
	flags.Float64VarP(&f.Width, "width", "W", f.Width, "canvas width")
	flags.Float64VarP(&f.Height, "height", "H", f.Height, "canvas height")
	flags.StringVarP(&f.Units, "units", "U", f.Units, "page units: "+strings.Join(sink.Units, ", "))
	flags.Float64VarP(&f.StrokeWidth, "stroke-width", "s", f.StrokeWidth, "outline width")

	// Colours and shapes
	flags.Float64Var(&f.ValueLow, "value-low", f.ValueLow, "colour value mapped from cell value 0")
	flags.Float64Var(&f.ValueHigh, "value-high", f.ValueHigh, "colour value mapped from cell value 1")
	flags.Float64Var(&f.CellZ, "cell-z-coord", f.CellZ, "blue channel of the cell-coord colour mode")
	flags.Float64VarP(&f.Scale, "scale", "S", f.Scale, "cell scale for shrinking cell modes")
	flags.StringVarP(&f.ScaleMode, "scale-mode", "Q", f.ScaleMode, "scale response to the cell value: "+strings.Join(shape.ScaleCurveNames(), ", "))
	flags.StringVarP(&f.ColorMode, "color-mode", "M", f.ColorMode, "colour mode: "+strings.Join(render.ColorModeNames(), ", "))
	flags.StringVarP(&f.CellMode, "cell-mode", "C", f.CellMode, "cell mode: "+strings.Join(shape.Names(), ", "))

	// Site field
	flags.Uint64Var(&f.seed, "seed", 0, "seed for the interior cells (random when unset)")
	flags.Uint64Var(&f.rimSeed, "rim-seed", 0, "separate seed for the rim cells")
	flags.IntVar(&f.RimWidth, "rim-width", f.RimWidth, "rim thickness in cells")
	flags.BoolVar(&f.OnlyRim, "only-rim", false, "render only the rim cells")
	flags.BoolVar(&f.SkipRim, "skip-rim", false, "render only the cells off the rim")
	flags.BoolVarP(&f.Transformable, "transformable", "T", false, "make the border symmetric so tiles can be mirrored and rotated")
	flags.StringVarP(&f.OffsMode, "offs-mode", "O", f.OffsMode, "site placement: "+strings.Join(pipeline.OffsModes, ", "))
	flags.StringVarP(&f.Image, "image", "i", "", "source image for image colour and offset modes")

	// Output
	flags.StringVar(&f.Format, "format", f.Format, "output format: "+strings.Join(pipeline.Formats, ", "))
	flags.Float64Var(&f.PNGScale, "png-scale", f.PNGScale, "pixels per canvas unit for png output")
	flags.StringVar(&f.PNGBackground, "png-background", "", "hex colour behind png output (transparent when unset)")
}

// registerCompletions completes mode flags with their accepted values.
func registerCompletions(cmd *cobra.Command) {
	fixed := map[string][]string{
		"units":      sink.Units,
		"scale-mode": shape.ScaleCurveNames(),
		"color-mode": render.ColorModeNames(),
		"cell-mode":  shape.Names(),
		"offs-mode":  pipeline.OffsModes,
		"format":     pipeline.Formats,
	}
	for name, values := range fixed {
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
}

// runRender executes one render into output ("" or "-" for stdout).
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)
	toStdout := output == "" || output == "-"

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Logger = logger
	opts.Logger = logger

	w, commit, abort, err := openOutput(output)
	if err != nil {
		return err
	}

	timer := startStopwatch(logger)
	cells := newCellProgress()
	restore := cells.install()
	defer restore()

	var spinner *Spinner
	if logger.GetLevel() > log.DebugLevel {
		spinner = newSpinner(ctx, c.ui.w, cells.String)
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts, w)
	if spinner != nil {
		spinner.Stop()
	}

	interrupted := stderrors.Is(err, context.Canceled) && result != nil
	if err != nil && !interrupted {
		abort()
		c.reportFailure(err)
		return fmt.Errorf("render: %w", err)
	}
	if cerr := commit(); cerr != nil {
		return cerr
	}

	name := output
	if toStdout {
		name = "stdout"
	}
	if interrupted {
		c.ui.warning("Interrupted after %d cells, partial document written", result.Stats.Cells)
		c.ui.file(name)
		return err
	}
	timer.done("wrote document", "output", name)
	c.ui.success("Rendered %s", filepath.Base(name))
	c.ui.stats(result.Stats.Cells, result.Stats.Records, result.CacheHit)
	if !toStdout {
		c.ui.file(output)
	}
	return nil
}

// reportFailure prints a status line for a render that wrote nothing.
func (c *CLI) reportFailure(err error) {
	switch {
	case errors.IsConfig(err):
		c.ui.failure("Invalid configuration: %s", errors.UserMessage(err))
	case errors.Is(err, errors.ErrCodeGeometryInvariant), errors.Is(err, errors.ErrCodeDegenerateCell):
		var ie *cell.InvariantError
		if stderrors.As(err, &ie) {
			c.ui.failure("Cell (%d,%d) has an edge bounded by %d neighbours", ie.X, ie.Y, ie.Count)
		} else {
			c.ui.failure("Cell geometry failed: %s", errors.UserMessage(err))
		}
		c.ui.info("Try another --seed or a smaller --scale")
	default:
		c.ui.failure("Render failed")
	}
}

// openOutput returns the document writer for output. Files are written to a
// temporary sibling and moved into place by commit; abort discards them.
func openOutput(output string) (w io.Writer, commit, abort func() error, err error) {
	if output == "" || output == "-" {
		nop := func() error { return nil }
		return os.Stdout, nop, nop, nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create %s: %w", output, err)
	}
	commit = func() error {
		if err := tmp.Chmod(0o644); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("write %s: %w", output, err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("write %s: %w", output, err)
		}
		if err := os.Rename(tmp.Name(), output); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("write %s: %w", output, err)
		}
		return nil
	}
	abort = func() error {
		tmp.Close()
		return os.Remove(tmp.Name())
	}
	return tmp, commit, abort, nil
}

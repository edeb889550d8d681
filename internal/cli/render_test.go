package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/voronoisvg/pkg/cell"
	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
x_cells = 48
y_cells = 27
width = 1920.0
height = 1080.0
cell_mode = "pebble"
scale_mode = "sqrt"
seed = 7
`)
	opts := pipeline.DefaultOptions()
	if err := loadConfig(path, &opts); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if opts.XCells != 48 || opts.YCells != 27 {
		t.Errorf("cells = %dx%d, want 48x27", opts.XCells, opts.YCells)
	}
	if opts.CellMode != "pebble" || opts.ScaleMode != "sqrt" {
		t.Errorf("modes = %s/%s", opts.CellMode, opts.ScaleMode)
	}
	if opts.Seed == nil || *opts.Seed != 7 {
		t.Errorf("seed = %v, want 7", opts.Seed)
	}
	// keys absent from the file keep their defaults
	if opts.Scale != pipeline.DefaultScale {
		t.Errorf("scale = %g, want default %g", opts.Scale, pipeline.DefaultScale)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, "cell_mdoe = \"pebble\"\n")
	opts := pipeline.DefaultOptions()
	err := loadConfig(path, &opts)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want INVALID_CONFIG", err)
	}
	if !strings.Contains(err.Error(), "cell_mdoe") {
		t.Errorf("error should name the unknown key: %v", err)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, "x_cells = 48\ncell_mode = \"pebble\"\nscale = 0.5\n")

	var configPath string
	var noCache bool
	f := &renderFlags{Options: pipeline.DefaultOptions()}
	flags := pflag.NewFlagSet("render", pflag.ContinueOnError)
	bindRenderFlags(flags, f, &configPath, &noCache)
	if err := flags.Parse([]string{"--config", path, "-X", "12", "--seed", "3", "-j", "4"}); err != nil {
		t.Fatal(err)
	}

	opts, err := resolveOptions(flags, configPath, f)
	if err != nil {
		t.Fatalf("resolveOptions: %v", err)
	}
	if opts.XCells != 12 {
		t.Errorf("x cells = %d, want the flag value 12", opts.XCells)
	}
	if opts.CellMode != "pebble" || opts.Scale != 0.5 {
		t.Errorf("config values lost: %s %g", opts.CellMode, opts.Scale)
	}
	if opts.Seed == nil || *opts.Seed != 3 {
		t.Errorf("seed = %v, want 3", opts.Seed)
	}
	if opts.Jobs != 4 {
		t.Errorf("jobs = %d, want 4", opts.Jobs)
	}
	if opts.RimSeed != nil {
		t.Error("rim seed should stay unset when the flag is not given")
	}
}

func TestFlagSettersCoverFlags(t *testing.T) {
	var configPath string
	var noCache bool
	flags := pflag.NewFlagSet("render", pflag.ContinueOnError)
	bindRenderFlags(flags, &renderFlags{}, &configPath, &noCache)

	for name := range flagSetters {
		if flags.Lookup(name) == nil {
			t.Errorf("setter for unknown flag %q", name)
		}
	}
	skip := map[string]bool{"config": true, "no-cache": true}
	flags.VisitAll(func(fl *pflag.Flag) {
		if !skip[fl.Name] && flagSetters[fl.Name] == nil {
			t.Errorf("flag %q has no setter", fl.Name)
		}
	})
}

func TestRenderToFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	out := filepath.Join(t.TempDir(), "out.svg")

	err := Execute(context.Background(), []string{"render", "--seed", "5", "-X", "6", "-Y", "4", "-C", "scaled", out})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<?xml") || !strings.HasSuffix(string(data), "</svg>\n") {
		t.Error("output is not a complete SVG document")
	}
	if got := strings.Count(string(data), "<path"); got != 8*6 {
		t.Errorf("paths = %d, want %d", got, 8*6)
	}

	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestRenderInvalidModeLeavesNoFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.svg")

	err := Execute(context.Background(), []string{"render", "--no-cache", "-C", "hexagon", out})
	if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Fatalf("err = %v, want INVALID_MODE", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no output should be written for an invalid mode")
	}
	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 0 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestExampleConfigs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "config", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example configs")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			opts := pipeline.DefaultOptions()
			if err := loadConfig(path, &opts); err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Fatalf("example config is invalid: %v", err)
			}

			runner := pipeline.NewRunner(nil, nil, newLogger(io.Discard, LogInfo))
			result, err := runner.Execute(context.Background(), opts, io.Discard)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if result.Stats.Records == 0 {
				t.Error("example rendered no records")
			}
		})
	}
}

func TestReportFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "configuration",
			err:  errors.New(errors.ErrCodeInvalidConfig, "x-cells must be positive, got 0"),
			want: []string{"Invalid configuration", "x-cells must be positive"},
		},
		{
			name: "neighbour invariant",
			err:  fmt.Errorf("dispatch: %w", &cell.InvariantError{X: 3, Y: 4, Edge: 1, Count: 2}),
			want: []string{"Cell (3,4)", "--seed"},
		},
		{
			name: "other",
			err:  io.ErrShortWrite,
			want: []string{"Render failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			c := New(&buf, LogInfo)
			c.reportFailure(tt.err)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q missing %q", buf.String(), want)
				}
			}
		})
	}
}

// Package dispatch fans cell rendering out over a fixed pool of workers that
// share one output sink.
//
// The linear index space covers the grid plus a one-cell halo on every side,
// (XCells+2)·(YCells+2) indices in total. Worker w of W visits indices w,
// w+W, w+2W, … so the partition is static and needs no coordination. Each
// worker buffers records locally and flushes a full batch to the sink while
// holding the dispatcher's lock, which makes every batch atomic in the
// output. Batches of different workers interleave in no particular order.
//
// On cancellation every worker stops between cells and flushes what it has
// buffered, so the output is always a sequence of whole records. A geometry
// error in any worker cancels the others and is returned from Run.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/observability"
	"github.com/matzehuels/voronoisvg/pkg/render"
	"github.com/matzehuels/voronoisvg/pkg/render/sink"
	"github.com/matzehuels/voronoisvg/pkg/sitefield"
)

// DefaultBatchSize is the number of records a worker buffers before flushing.
const DefaultBatchSize = 64

// Emitter produces the records of one cell. Implementations must be safe
// for concurrent use.
type Emitter interface {
	Emit(x, y int) (iter.Seq[render.Record], error)
}

// RimFilter restricts which cells are rendered.
type RimFilter int

const (
	AllCells RimFilter = iota
	SkipRim            // render only cells off the rim
	OnlyRim            // render only rim cells
)

// Options configures a Dispatcher.
type Options struct {
	XCells, YCells int
	Workers        int // defaults to 1
	BatchSize      int // defaults to DefaultBatchSize

	// RimWidth and Filter select cells by distance from the border. A
	// cell is on the rim when it lies within RimWidth-1 cells of it, so
	// the halo ring counts as rim for any positive width.
	RimWidth int
	Filter   RimFilter

	Logger *log.Logger
}

// State is the lifecycle stage of a Dispatcher.
type State int32

const (
	Idle State = iota
	Dispatched
	Running
	Joined
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatched:
		return "dispatched"
	case Running:
		return "running"
	case Joined:
		return "joined"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Stats summarises a run.
type Stats struct {
	Cells   int // cells emitted
	Skipped int // cells excluded by the rim filter
	Records int // records written to the sink
	Batches int // sink writes
}

// Job is the arithmetic progression of indices assigned to one worker.
type Job struct {
	Worker int
	Stride int
}

// Jobs splits the index space over n workers.
func Jobs(n int) []Job {
	jobs := make([]Job, n)
	for w := range jobs {
		jobs[w] = Job{Worker: w, Stride: n}
	}
	return jobs
}

// Indices yields the indices of j below n.
func (j Job) Indices(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for k := j.Worker; k < n; k += j.Stride {
			if !yield(k) {
				return
			}
		}
	}
}

// Coord converts a linear index into a grid coordinate. Index 0 is the halo
// cell (-1, -1).
func Coord(k, xCells int) (x, y int) {
	w := xCells + 2
	return k%w - 1, k/w - 1
}

// Dispatcher runs one render over a pool of workers. It can be run once.
type Dispatcher struct {
	opts    Options
	emitter Emitter
	sink    sink.Sink
	logger  *log.Logger

	mu    sync.Mutex   // serialises sink writes
	state atomic.Int32 // current State

	cells   atomic.Int64
	skipped atomic.Int64
	records atomic.Int64
	batches atomic.Int64
}

// New returns an idle dispatcher feeding records from e into s.
func New(opts Options, e Emitter, s sink.Sink) (*Dispatcher, error) {
	if err := errors.ValidatePositive("x-cells", opts.XCells); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("y-cells", opts.YCells); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{opts: opts, emitter: e, sink: s, logger: logger}, nil
}

// State returns the current lifecycle stage.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Run renders every cell and blocks until all workers have exited. It
// returns ctx.Err() when cancelled and the first worker error otherwise;
// Stats are valid in every case.
func (d *Dispatcher) Run(ctx context.Context) (Stats, error) {
	if !d.state.CompareAndSwap(int32(Idle), int32(Dispatched)) {
		return Stats{}, errors.New(errors.ErrCodeInternal, "dispatcher already %s", d.State())
	}
	n := (d.opts.XCells + 2) * (d.opts.YCells + 2)
	jobs := Jobs(d.opts.Workers)
	d.logger.Debug("dispatching", "indices", n, "workers", len(jobs), "batch", d.opts.BatchSize)

	g, gctx := errgroup.WithContext(ctx)
	d.state.Store(int32(Running))
	for _, job := range jobs {
		g.Go(func() error { return d.work(gctx, job, n) })
	}
	err := g.Wait()
	d.state.Store(int32(Joined))

	stats := Stats{
		Cells:   int(d.cells.Load()),
		Skipped: int(d.skipped.Load()),
		Records: int(d.records.Load()),
		Batches: int(d.batches.Load()),
	}
	d.state.Store(int32(Done))

	if ctx.Err() != nil {
		return stats, ctx.Err()
	}
	return stats, err
}

// work processes the indices of one job.
func (d *Dispatcher) work(ctx context.Context, job Job, n int) (err error) {
	logger := d.logger.With("worker", job.Worker)
	hooks := observability.Dispatch()
	batch := make([]render.Record, 0, d.opts.BatchSize)
	visited := 0

	defer func() {
		// flush what is buffered on every exit path; records are whole
		if ferr := d.flush(ctx, job.Worker, batch); ferr != nil && err == nil {
			err = ferr
		}
		hooks.OnWorkerDone(ctx, job.Worker, visited, err)
	}()

	for k := range job.Indices(n) {
		if err := ctx.Err(); err != nil {
			return err
		}
		x, y := Coord(k, d.opts.XCells)
		visited++

		if d.skip(x, y) {
			d.skipped.Add(1)
			hooks.OnCell(ctx, job.Worker, x, y)
			continue
		}

		records, err := d.emitter.Emit(x, y)
		if err != nil {
			return cellError(x, y, err)
		}
		for r := range records {
			batch = append(batch, r)
			if len(batch) < d.opts.BatchSize {
				continue
			}
			if err := d.flush(ctx, job.Worker, batch); err != nil {
				batch = nil
				return err
			}
			batch = batch[:0]
		}
		d.cells.Add(1)
		logger.Debug("cell", "x", x, "y", y)
		hooks.OnCell(ctx, job.Worker, x, y)
	}
	return nil
}

// cellError locates err at cell (x, y) unless it is a geometry error,
// whose message already names the cell.
func cellError(x, y int, err error) error {
	if errors.Is(err, errors.ErrCodeGeometryInvariant) || errors.Is(err, errors.ErrCodeDegenerateCell) {
		return err
	}
	return fmt.Errorf("cell (%d,%d): %w", x, y, err)
}

// flush writes batch to the sink under the lock.
func (d *Dispatcher) flush(ctx context.Context, worker int, batch []render.Record) error {
	if len(batch) == 0 {
		return nil
	}
	d.mu.Lock()
	err := d.sink.Write(batch)
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("worker %d: %w", worker, err)
	}
	d.records.Add(int64(len(batch)))
	d.batches.Add(1)
	observability.Dispatch().OnBatch(ctx, worker, len(batch))
	return nil
}

func (d *Dispatcher) skip(x, y int) bool {
	rim := sitefield.IsRim(x, y, d.opts.XCells, d.opts.YCells, d.opts.RimWidth-1)
	switch d.opts.Filter {
	case SkipRim:
		return rim
	case OnlyRim:
		return !rim
	}
	return false
}

package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/voronoisvg/pkg/cache"
	"github.com/matzehuels/voronoisvg/pkg/dispatch"
	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/observability"
)

// cacheKeyType labels cache hook events.
const cacheKeyType = "document"

// Runner executes renders with caching.
//
// The Runner is stateless except for the cache and logger, so one Runner
// may execute several renders concurrently.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Result describes a finished render.
type Result struct {
	RunID    string
	Stats    dispatch.Stats
	Duration time.Duration
	Bytes    int
	CacheHit bool
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute renders opts into w.
//
// On cancellation the records written so far are closed into a well-formed
// document and ctx.Err() is returned with the partial Result. Any other
// failure leaves w without an epilogue.
func (r *Runner) Execute(ctx context.Context, opts Options, w io.Writer) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID)
	if opts.Logger == nil {
		opts.Logger = logger
	}
	start := time.Now()

	var key string
	if opts.Cacheable() {
		key = r.Keyer.DocumentKey(opts.Format, opts.CacheKeyOpts())
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			if _, err := w.Write(data); err != nil {
				return nil, errors.Wrap(errors.ErrCodeOutput, err, "write cached document")
			}
			result.CacheHit = true
			result.Bytes = len(data)
			result.Duration = time.Since(start)
			logger.Info("served from cache", "bytes", result.Bytes, "duration", result.Duration)
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	plan, err := opts.Build()
	if err != nil {
		return nil, err
	}

	var captured bytes.Buffer
	out := &countingWriter{w: w}
	var dst io.Writer = out
	if key != "" {
		dst = io.MultiWriter(out, &captured)
	}
	doc, err := opts.NewDocument(dst)
	if err != nil {
		return nil, err
	}
	d, err := dispatch.New(plan.Dispatch, plan.Emitter, doc)
	if err != nil {
		return nil, err
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, result.RunID, (plan.XCells+2)*(plan.YCells+2))
	logger.Debug("rendering",
		"cells", fmt.Sprintf("%dx%d", plan.XCells, plan.YCells),
		"workers", opts.Jobs,
		"mode", opts.CellMode)

	if err := doc.Begin(); err != nil {
		hooks.OnRenderComplete(ctx, result.RunID, 0, time.Since(start), err)
		return nil, err
	}
	result.Stats, err = d.Run(ctx)
	cancelled := stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
	if err != nil && !cancelled {
		hooks.OnRenderComplete(ctx, result.RunID, result.Stats.Records, time.Since(start), err)
		return nil, err
	}
	if endErr := doc.End(); endErr != nil {
		hooks.OnRenderComplete(ctx, result.RunID, result.Stats.Records, time.Since(start), endErr)
		return nil, endErr
	}
	result.Bytes = out.n
	result.Duration = time.Since(start)
	hooks.OnRenderComplete(ctx, result.RunID, result.Stats.Records, result.Duration, err)

	if cancelled {
		logger.Warn("render interrupted",
			"cells", result.Stats.Cells,
			"records", result.Stats.Records,
			"duration", result.Duration)
		return result, err
	}

	logger.Info("rendered",
		"cells", result.Stats.Cells,
		"records", result.Stats.Records,
		"duration", result.Duration)

	if key != "" {
		r.store(ctx, logger, key, captured.Bytes(), result.RunID)
	}
	return result, nil
}

// store caches a finished document. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, logger *log.Logger, key string, data []byte, runID string) {
	var err error
	if rc, ok := r.Cache.(cache.RunRecorder); ok {
		err = rc.SetWithRun(ctx, key, data, cache.TTLDocument, runID)
	} else {
		err = r.Cache.Set(ctx, key, data, cache.TTLDocument)
	}
	if err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

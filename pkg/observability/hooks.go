// Package observability provides hooks for progress reporting and metrics.
//
// Libraries emit events through the registered hooks; main registers
// implementations at startup. The defaults are no-ops, so library code can
// call hooks unconditionally.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDispatchHooks(&progressHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Dispatch().OnCell(ctx, worker, x, y)
//
// Dispatch hooks are called from worker goroutines and must be safe for
// concurrent use.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events around one complete render run.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, runID string, cells int)
	OnRenderComplete(ctx context.Context, runID string, records int, duration time.Duration, err error)
}

// =============================================================================
// Dispatch Hooks
// =============================================================================

// DispatchHooks receives events from the parallel dispatcher.
type DispatchHooks interface {
	// OnCell records that a worker finished a cell (emitted or skipped).
	OnCell(ctx context.Context, worker, x, y int)

	// OnBatch records a batch flushed to the output under the lock.
	OnBatch(ctx context.Context, worker, records int)

	// OnWorkerDone records a worker exiting, with the cells it visited.
	OnWorkerDone(ctx context.Context, worker, cells int, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopDispatchHooks is a no-op implementation of DispatchHooks.
type NoopDispatchHooks struct{}

func (NoopDispatchHooks) OnCell(context.Context, int, int, int)         {}
func (NoopDispatchHooks) OnBatch(context.Context, int, int)             {}
func (NoopDispatchHooks) OnWorkerDone(context.Context, int, int, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set. Reads are lock-free because dispatch
// hooks are looked up once per cell.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) set(h T) {
	if any(h) != nil {
		s.p.Store(&h)
	}
}

func (s *slot[T]) get() T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return s.noop
}

var (
	renderHooks   = slot[RenderHooks]{noop: NoopRenderHooks{}}
	dispatchHooks = slot[DispatchHooks]{noop: NoopDispatchHooks{}}
	cacheHooks    = slot[CacheHooks]{noop: NoopCacheHooks{}}
)

// SetRenderHooks registers render hooks. A nil h is ignored.
func SetRenderHooks(h RenderHooks) { renderHooks.set(h) }

// SetDispatchHooks registers dispatch hooks. A nil h is ignored.
func SetDispatchHooks(h DispatchHooks) { dispatchHooks.set(h) }

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { cacheHooks.set(h) }

// Render returns the registered render hooks.
func Render() RenderHooks { return renderHooks.get() }

// Dispatch returns the registered dispatch hooks.
func Dispatch() DispatchHooks { return dispatchHooks.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// Reset restores the no-op hooks.
func Reset() {
	renderHooks.p.Store(nil)
	dispatchHooks.p.Store(nil)
	cacheHooks.p.Store(nil)
}

package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "run", 1024)
	r.OnRenderComplete(ctx, "run", 1024, time.Second, nil)

	d := NoopDispatchHooks{}
	d.OnCell(ctx, 0, -1, 3)
	d.OnBatch(ctx, 1, 64)
	d.OnWorkerDone(ctx, 1, 512, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "document")
	c.OnCacheMiss(ctx, "document")
	c.OnCacheSet(ctx, "document", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Dispatch().(NoopDispatchHooks); !ok {
		t.Error("Dispatch() should return NoopDispatchHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customDispatch := &testDispatchHooks{}
	SetDispatchHooks(customDispatch)
	if Dispatch() != customDispatch {
		t.Error("SetDispatchHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Dispatch().(NoopDispatchHooks); !ok {
		t.Error("Reset() should restore NoopDispatchHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDispatchHooks{}
	SetDispatchHooks(custom)
	SetDispatchHooks(nil)

	if Dispatch() != custom {
		t.Error("SetDispatchHooks(nil) should be ignored")
	}

	Reset()
}

func TestDispatchHooksConcurrentUse(t *testing.T) {
	Reset()
	defer Reset()

	counter := &countingDispatchHooks{}
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				Dispatch().OnCell(context.Background(), w, i, 0)
			}
		}()
	}
	SetDispatchHooks(counter)
	wg.Wait()

	if n := counter.cells.Load(); n > 400 {
		t.Errorf("counted %d cells, want at most 400", n)
	}
}

type countingDispatchHooks struct {
	NoopDispatchHooks
	cells atomic.Int64
}

func (h *countingDispatchHooks) OnCell(context.Context, int, int, int) { h.cells.Add(1) }

type testRenderHooks struct{ NoopRenderHooks }
type testDispatchHooks struct{ NoopDispatchHooks }
type testCacheHooks struct{ NoopCacheHooks }

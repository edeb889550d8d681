package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/matzehuels/voronoisvg/pkg/observability"
)

// cellProgress counts visited cells for the spinner. It is registered as
// both render and dispatch hooks: the render start reports the total, the
// dispatcher reports each cell.
type cellProgress struct {
	observability.NoopDispatchHooks
	total atomic.Int64
	cells atomic.Int64
}

func newCellProgress() *cellProgress {
	return &cellProgress{}
}

// install registers p and returns a func restoring the no-op hooks.
func (p *cellProgress) install() (restore func()) {
	observability.SetRenderHooks(p)
	observability.SetDispatchHooks(p)
	return observability.Reset
}

func (p *cellProgress) OnRenderStart(_ context.Context, _ string, cells int) {
	p.total.Store(int64(cells))
	p.cells.Store(0)
}

func (p *cellProgress) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

func (p *cellProgress) OnCell(context.Context, int, int, int) {
	p.cells.Add(1)
}

// String renders the progress line.
func (p *cellProgress) String() string {
	total := p.total.Load()
	if total == 0 {
		return "Preparing..."
	}
	done := p.cells.Load()
	return fmt.Sprintf("Rendering cells %d/%d (%d%%)", done, total, done*100/total)
}

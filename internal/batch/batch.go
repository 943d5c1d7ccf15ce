// Package batch runs per-image export jobs one at a time, yielding between
// images so an interactive caller stays responsive.
package batch

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/example/pixelsuite/internal/logging"
	"github.com/example/pixelsuite/internal/notify"
)

// Item is one image queued for processing.
type Item struct {
	ID   string
	Name string
}

// Result is the outcome for one item. Skipped items were never started.
type Result struct {
	Item
	Path    string
	Err     error
	Skipped bool
}

// Progress is reported after each item.
type Progress struct {
	Done    int
	Total   int
	Current Item
}

// Summary counts the outcomes of a run.
type Summary struct {
	Done, Failed, Skipped int
}

// Work processes one item and returns where its output was written.
type Work func(ctx context.Context, it Item) (string, error)

// Runner executes batches.
type Runner struct {
	yield     func()
	progress  func(Progress)
	notifier  *notify.Notifier
	dismissed atomic.Bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithYield replaces the pause between items. The default is runtime.Gosched.
func WithYield(fn func()) Option { return func(r *Runner) { r.yield = fn } }

// WithProgress registers a progress callback.
func WithProgress(fn func(Progress)) Option { return func(r *Runner) { r.progress = fn } }

// WithNotifier announces completion through n.
func WithNotifier(n *notify.Notifier) Option { return func(r *Runner) { r.notifier = n } }

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{yield: runtime.Gosched}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Dismiss hides progress for the current run. Processing continues; only
// context cancellation stops queued items.
func (r *Runner) Dismiss() { r.dismissed.Store(true) }

// Dismissed reports whether progress is hidden.
func (r *Runner) Dismissed() bool { return r.dismissed.Load() }

// Run processes items in order. A failing item records its error and the
// run moves on. Once ctx is done, the remaining items are marked skipped;
// the item already in flight is allowed to finish.
func (r *Runner) Run(ctx context.Context, items []Item, work Work) ([]Result, Summary) {
	r.dismissed.Store(false)
	results := make([]Result, len(items))
	var sum Summary
	for i, it := range items {
		results[i].Item = it
		if err := ctx.Err(); err != nil {
			results[i].Skipped = true
			results[i].Err = err
			sum.Skipped++
			continue
		}
		path, err := work(ctx, it)
		results[i].Path, results[i].Err = path, err
		if err != nil {
			sum.Failed++
			logging.Logger().Warn("batch: item failed", "id", it.ID, "err", err)
		} else {
			sum.Done++
		}
		if r.progress != nil && !r.Dismissed() {
			r.progress(Progress{Done: i + 1, Total: len(items), Current: it})
		}
		if i < len(items)-1 && r.yield != nil {
			r.yield()
		}
	}
	r.notifier.Batch(sum.Done, sum.Failed, sum.Skipped)
	return results, sum
}

package processing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/spacesedan/tickerpulse/internal/utils"
)

// Outcome is the settled result of one attempt against one source.
type Outcome[T any] struct {
	Source string
	Value  T
	Err    error
}

func (o Outcome[T]) OK() bool { return o.Err == nil }

type indexedOutcome[T any] struct {
	index   int
	outcome Outcome[T]
}

// AttemptEach calls fn once per source with at most limit calls in flight.
// It always returns one outcome per source, in source order. A panicking
// call is converted into an error outcome.
func AttemptEach[T any](ctx context.Context, sources []string, limit int, fn func(ctx context.Context, source string) (T, error)) []Outcome[T] {
	if limit < 1 {
		limit = 1
	}
	results := utils.NewCollector[indexedOutcome[T]](len(sources))
	p := pool.New().WithMaxGoroutines(limit)

	for i, source := range sources {
		p.Go(func() {
			results.Add(indexedOutcome[T]{index: i, outcome: attempt(ctx, source, fn)})
		})
	}
	p.Wait()
	results.LogCollected("outcome")

	settled := results.Drain()
	sort.Slice(settled, func(a, b int) bool { return settled[a].index < settled[b].index })

	out := make([]Outcome[T], len(settled))
	for i, s := range settled {
		out[i] = s.outcome
	}
	return out
}

// AttemptInOrder calls fn for each source sequentially. After every outcome
// stop is consulted with everything settled so far; returning true ends the
// run. A cancelled context also ends it.
func AttemptInOrder[T any](ctx context.Context, sources []string, fn func(ctx context.Context, source string) (T, error), stop func(settled []Outcome[T]) bool) []Outcome[T] {
	out := make([]Outcome[T], 0, len(sources))
	for _, source := range sources {
		if ctx.Err() != nil {
			break
		}
		out = append(out, attempt(ctx, source, fn))
		if stop != nil && stop(out) {
			break
		}
	}
	return out
}

func attempt[T any](ctx context.Context, source string, fn func(ctx context.Context, source string) (T, error)) Outcome[T] {
	o := Outcome[T]{Source: source}
	var pc panics.Catcher
	pc.Try(func() {
		o.Value, o.Err = fn(ctx, source)
	})
	if r := pc.Recovered(); r != nil {
		slog.Error("[Attempt] Source panicked", slog.String("source", source), slog.Any("panic", r.Value))
		o.Err = fmt.Errorf("source %s panicked: %w", source, r.AsError())
	}
	return o
}

package integration

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/zoobzio/timelinez"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// Shape is a span tree stripped of ids, comparable across runs.
type Shape struct {
	Name     string
	Children []Shape
	Start    uint64
	End      uint64
	Thread   int
}

// ShapeOf rebuilds the tree below the single root of spans, with
// children ordered by start, name, then thread.
func ShapeOf(t *testing.T, spans map[uint64]timelinez.Span) Shape {
	t.Helper()
	children := make(map[uint64][]timelinez.Span)
	var roots []timelinez.Span
	for _, s := range spans {
		if !s.HasParent() {
			roots = append(roots, s)
			continue
		}
		children[s.Parent] = append(children[s.Parent], s)
	}
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}

	var shape func(s timelinez.Span) Shape
	shape = func(s timelinez.Span) Shape {
		kids := children[s.ID]
		slices.SortFunc(kids, func(a, b timelinez.Span) int {
			return cmp.Or(
				cmp.Compare(a.Start, b.Start),
				cmp.Compare(a.Name, b.Name),
				cmp.Compare(a.ExecutionThread, b.ExecutionThread),
			)
		})
		out := Shape{Name: s.Name, Start: s.Start, End: s.End, Thread: s.ExecutionThread}
		for _, k := range kids {
			out.Children = append(out.Children, shape(k))
		}
		return out
	}
	return shape(roots[0])
}

// Ticker advances a fake clock by a fixed step every time a span opens or
// closes, so recordings on one thread are fully deterministic.
type Ticker struct {
	Clock *clockz.FakeClock
	Step  time.Duration
}

// NewTicker returns a ticker on a fake clock at epoch.
func NewTicker(step time.Duration) *Ticker {
	return &Ticker{Clock: clockz.NewFakeClockAt(epoch), Step: step}
}

// Span records name under the current span of p, running fn inside it.
func (k *Ticker) Span(p *timelinez.Producer, name string, fn func()) {
	s := p.Start(name)
	k.Clock.Advance(k.Step)
	if fn != nil {
		fn()
	}
	k.Clock.Advance(k.Step)
	s.End()
}

// Tree records a tree of the given depth and fanout below the current
// span of p.
func (k *Ticker) Tree(p *timelinez.Producer, prefix string, depth, fanout int) {
	if depth == 0 {
		return
	}
	for i := range fanout {
		name := fmt.Sprintf("%s.%d", prefix, i)
		k.Span(p, name, func() {
			k.Tree(p, name, depth-1, fanout)
		})
	}
}

// nestedWork records depth nested spans on p with no clock control.
func nestedWork(_ context.Context, p *timelinez.Producer, depth int) error {
	for d := range depth {
		s := p.Start(fmt.Sprintf("level%d", d))
		defer s.End()
	}
	return nil
}

// countTree returns the number of spans Tree records.
func countTree(depth, fanout int) int {
	n, level := 0, 1
	for range depth {
		level *= fanout
		n += level
	}
	return n
}

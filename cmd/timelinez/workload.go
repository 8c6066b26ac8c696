package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/timelinez"
)

// workload is a synthetic job: load, fan out to workers, merge.
type workload struct {
	unit    time.Duration
	workers int
	depth   int
}

func (w workload) run(ctx context.Context, p *timelinez.Producer) error {
	if err := w.step(ctx, p, "load", 2); err != nil {
		return err
	}

	branches := make([]timelinez.Branch, w.workers)
	for i := range branches {
		branches[i] = func(ctx context.Context, q *timelinez.Producer) error {
			return w.process(ctx, q, i, w.depth)
		}
	}
	if err := p.Parallel(ctx, "worker", branches...); err != nil {
		return err
	}

	return w.step(ctx, p, "merge", 1)
}

// process nests depth levels of work under the current span of p.
func (w workload) process(ctx context.Context, p *timelinez.Producer, worker, depth int) error {
	if depth == 0 {
		return nil
	}
	span := p.Start("stage")
	defer span.End()
	span.SetLabel(fmt.Sprintf("stage%d.w%d", depth, worker))

	if err := w.sleep(ctx, worker+1); err != nil {
		return err
	}
	if err := w.process(ctx, p, worker, depth-1); err != nil {
		return err
	}
	return w.sleep(ctx, 1)
}

func (w workload) step(ctx context.Context, p *timelinez.Producer, name string, units int) error {
	span := p.Start(name)
	defer span.End()
	return w.sleep(ctx, units)
}

func (w workload) sleep(ctx context.Context, units int) error {
	t := time.NewTimer(time.Duration(units) * w.unit)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

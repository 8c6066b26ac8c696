package timelinez

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ParallelName is the reserved span name whose children are laid out
// side by side instead of in sequence.
const ParallelName = "parallel"

// Producer is the capture context of one logical thread.
// All its methods must be called from a single goroutine at a time: it
// owns its event log and span stack and writes them without locking.
// Handing a Producer to another goroutine is fine once the previous one
// is done with it.
type Producer struct {
	recorder *Recorder
	log      *Storage[RawEvent]
	stack    *SpanStack
	// workers run Parallel branches, reused by branch index.
	workers []*Producer
	ordinal int
}

func newProducer(r *Recorder) *Producer {
	return &Producer{
		recorder: r,
		stack:    NewSpanStack(),
		ordinal:  -1,
	}
}

// push appends ev to the producer's log, registering the log on first use.
func (p *Producer) push(ev RawEvent) {
	p.register()
	p.log.Push(ev)
}

func (p *Producer) register() {
	if p.log == nil {
		p.ordinal, p.log = p.recorder.registry.Register()
	}
}

// Ordinal returns the thread ordinal, or -1 before the first event.
func (p *Producer) Ordinal() int {
	return p.ordinal
}

// BeginSpan allocates a span id and records its name and parent.
// With parent 0 the span nests under whatever span is current on this
// thread when the log is replayed.
func (p *Producer) BeginSpan(name string, parent uint64) uint64 {
	id := p.recorder.nextID.Add(1)
	p.push(RawEvent{Kind: EventNewSpan, ID: id, Name: name, Parent: parent})
	return id
}

// Enter makes id the current span of this thread.
func (p *Producer) Enter(id uint64) {
	p.stack.Enter(id)
	p.push(RawEvent{Kind: EventEnter, ID: id, Time: p.recorder.Now()})
}

// Exit leaves span id, which must be the current span of this thread.
// Exiting any other span panics: overlapping spans are not supported.
func (p *Producer) Exit(id uint64) {
	p.push(RawEvent{Kind: EventExit, ID: id, Time: p.recorder.Now()})
	if err := p.stack.Exit(id); err != nil {
		panic(err)
	}
}

// AttachField records a string field on span id.
// Only LabelField is interpreted; it renames the span.
func (p *Producer) AttachField(id uint64, field, value string) {
	p.push(RawEvent{Kind: EventStrField, ID: id, Name: field, Value: value})
}

// CurrentSpan returns the innermost span entered on this thread.
func (p *Producer) CurrentSpan() (uint64, bool) {
	return p.stack.Current()
}

// ActiveSpan is an entered span waiting to be exited.
type ActiveSpan struct {
	producer *Producer
	id       uint64
	ended    bool
}

// Start begins and enters a span nested under the current span.
func (p *Producer) Start(name string) *ActiveSpan {
	parent, _ := p.CurrentSpan()
	return p.StartChild(name, parent)
}

// StartChild begins and enters a span with an explicit parent, which may
// live on another thread.
func (p *Producer) StartChild(name string, parent uint64) *ActiveSpan {
	id := p.BeginSpan(name, parent)
	p.Enter(id)
	return &ActiveSpan{producer: p, id: id}
}

// ID returns the span id.
func (a *ActiveSpan) ID() uint64 {
	return a.id
}

// SetLabel overrides the display name of the span.
func (a *ActiveSpan) SetLabel(label string) {
	a.producer.AttachField(a.id, LabelField, label)
}

// End exits the span. Safe to call multiple times - subsequent calls are no-ops.
func (a *ActiveSpan) End() {
	if a.ended {
		return
	}
	a.ended = true
	a.producer.Exit(a.id)
}

// Branch is one unit of work run by Parallel on its own thread.
type Branch func(ctx context.Context, p *Producer) error

// Parallel runs every branch on its own goroutine and Producer, under a
// span named ParallelName on this thread. Each branch is wrapped in a span
// called name whose parent is the parallel span. Parallel returns once
// all branches are done, with the first error any of them returned.
//
// Branch i always runs on the same worker Producer of p, so repeating a
// workload after a reset records on the same thread ordinals and
// registers no new logs.
func (p *Producer) Parallel(ctx context.Context, name string, branches ...Branch) error {
	span := p.Start(ParallelName)
	defer span.End()

	workers := p.branchWorkers(len(branches))
	g, gctx := errgroup.WithContext(ctx)
	for i, branch := range branches {
		worker := workers[i]
		g.Go(func() error {
			child := worker.StartChild(name, span.ID())
			defer child.End()
			if err := branch(gctx, worker); err != nil {
				return fmt.Errorf("branch %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// branchWorkers returns the first n worker producers of p, creating and
// registering missing ones in branch order.
func (p *Producer) branchWorkers(n int) []*Producer {
	for len(p.workers) < n {
		w := newProducer(p.recorder)
		w.register()
		p.workers = append(p.workers, w)
	}
	return p.workers[:n]
}

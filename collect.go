package timelinez

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
)

// Collection is the result of replaying every thread's event log.
type Collection struct {
	// Spans maps span ids to their resolved records.
	Spans map[uint64]Span
	// Entered counts enter events, Exited exit events.
	Entered int
	Exited  int
	// Unfinished counts spans still entered at the collection boundary.
	// They are closed at the latest recorded timestamp.
	Unfinished int
	// Threads is the number of registered threads.
	Threads int
}

// replayed is a span under reconstruction.
type replayed struct {
	Span
	entered bool
}

// replayer holds state shared by all threads during one reconstruction.
type replayer struct {
	spans   map[uint64]*replayed
	log     logr.Logger
	minTime uint64
	maxTime uint64
	entered int
	exited  int
}

func (r *replayer) span(id uint64) *replayed {
	s, ok := r.spans[id]
	if !ok {
		s = &replayed{Span: Span{ID: id}}
		r.spans[id] = s
	}
	return s
}

func (r *replayer) observe(t uint64) {
	if t < r.minTime {
		r.minTime = t
	}
	if t > r.maxTime {
		r.maxTime = t
	}
}

// thread replays the log of one thread and returns the ids it left entered.
func (r *replayer) thread(ordinal int, events *Storage[RawEvent]) ([]uint64, error) {
	var active []uint64
	created := 0

	for ev := range events.All() {
		switch ev.Kind {
		case EventNewSpan:
			s := r.span(ev.ID)
			s.Name = ev.Name
			s.CreationThread = ordinal
			switch {
			case ev.Parent != 0:
				s.Parent = ev.Parent
			case len(active) > 0:
				s.Parent = active[len(active)-1]
			}
			created++

		case EventEnter:
			s := r.span(ev.ID)
			s.Start = ev.Time
			s.ExecutionThread = ordinal
			s.entered = true
			active = append(active, ev.ID)
			r.entered++
			r.observe(ev.Time)

		case EventExit:
			s := r.span(ev.ID)
			s.End = ev.Time
			if s.entered && s.ExecutionThread != ordinal {
				return nil, fmt.Errorf("%w: span %d (%s) entered on thread %d, exited on thread %d",
					ErrWrongThread, ev.ID, s.Name, s.ExecutionThread, ordinal)
			}
			if len(active) == 0 {
				return nil, fmt.Errorf("%w: span %d exited on thread %d with no span entered",
					ErrMisnestedExit, ev.ID, ordinal)
			}
			if top := active[len(active)-1]; top != ev.ID {
				return nil, fmt.Errorf("%w: span %d exited on thread %d while span %d is current",
					ErrMisnestedExit, ev.ID, ordinal, top)
			}
			active = active[:len(active)-1]
			r.exited++
			r.observe(ev.Time)

		case EventStrField:
			if ev.Name == LabelField {
				r.span(ev.ID).Name = ev.Value
				continue
			}
			r.log.Info("dropping unrecognized span field", "span", ev.ID, "field", ev.Name, "thread", ordinal)

		default:
			r.log.Info("dropping unknown event", "kind", ev.Kind.String(), "thread", ordinal)
		}
	}

	if created == 0 {
		r.log.Info("thread produced no spans", "thread", ordinal, "events", events.Len())
	}
	return active, nil
}

// Reconstruct replays every log of reg, in registration order, into a
// validated span set. Timestamps are re-based so the earliest recorded
// event is at zero. Each log is reset once every thread replayed
// successfully; on error the logs are left untouched.
//
// All producers must have stopped recording before Reconstruct is called.
func Reconstruct(reg *Registry, log logr.Logger) (*Collection, error) {
	logs := reg.Logs()
	r := &replayer{
		spans:   make(map[uint64]*replayed),
		log:     log,
		minTime: math.MaxUint64,
	}

	var unfinished []uint64
	for ordinal, events := range logs {
		active, err := r.thread(ordinal, events)
		if err != nil {
			return nil, err
		}
		unfinished = append(unfinished, active...)
	}

	for _, id := range unfinished {
		r.spans[id].End = r.maxTime
	}
	if len(unfinished) > 0 {
		log.Info("closed unfinished spans at last timestamp", "count", len(unfinished), "time", r.maxTime)
	}

	if r.entered != r.exited+len(unfinished) {
		return nil, fmt.Errorf("%w: %d entered, %d exited, %d unfinished",
			ErrInconsistentCounts, r.entered, r.exited, len(unfinished))
	}
	if r.entered != len(r.spans) {
		return nil, fmt.Errorf("%w: %d entered, %d spans", ErrInconsistentCounts, r.entered, len(r.spans))
	}

	spans := make(map[uint64]Span, len(r.spans))
	for id, s := range r.spans {
		s.Start -= r.minTime
		s.End -= r.minTime
		spans[id] = s.Span
	}

	for _, events := range logs {
		events.Reset()
	}

	return &Collection{
		Spans:      spans,
		Entered:    r.entered,
		Exited:     r.exited,
		Unfinished: len(unfinished),
		Threads:    len(logs),
	}, nil
}

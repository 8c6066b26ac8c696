package timelinez

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap/zapcore"
)

// pushAll registers one thread per event list and pushes its events.
func pushAll(threads ...[]RawEvent) *Registry {
	reg := NewRegistry()
	for _, events := range threads {
		_, s := reg.Register()
		for _, ev := range events {
			s.Push(ev)
		}
	}
	return reg
}

func newSpan(id, parent uint64, name string) RawEvent {
	return RawEvent{Kind: EventNewSpan, ID: id, Parent: parent, Name: name}
}

func enter(id, at uint64) RawEvent { return RawEvent{Kind: EventEnter, ID: id, Time: at} }
func exit(id, at uint64) RawEvent  { return RawEvent{Kind: EventExit, ID: id, Time: at} }

func TestReconstructNested(t *testing.T) {
	reg := pushAll([]RawEvent{
		newSpan(1, 0, "main_task"),
		enter(1, 5000),
		newSpan(2, 0, "work"),
		enter(2, 5100),
		exit(2, 5900),
		exit(1, 6000),
	})

	c, err := Reconstruct(reg, logr.Discard())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := map[uint64]Span{
		1: {ID: 1, Name: "main_task", Start: 0, End: 1000},
		2: {ID: 2, Parent: 1, Name: "work", Start: 100, End: 900},
	}
	if len(c.Spans) != len(want) {
		t.Fatalf("Expected %d spans, got %d", len(want), len(c.Spans))
	}
	for id, w := range want {
		if got := c.Spans[id]; got != w {
			t.Errorf("Span %d: expected %+v, got %+v", id, w, got)
		}
	}
	if c.Entered != 2 || c.Exited != 2 || c.Unfinished != 0 || c.Threads != 1 {
		t.Errorf("Unexpected counts: %+v", c)
	}
}

func TestReconstructExplicitParentAcrossThreads(t *testing.T) {
	reg := pushAll(
		[]RawEvent{newSpan(1, 0, "main_task"), enter(1, 0), exit(1, 1000)},
		[]RawEvent{newSpan(2, 1, "remote"), enter(2, 200), exit(2, 400)},
	)

	c, err := Reconstruct(reg, logr.Discard())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	remote := c.Spans[2]
	if remote.Parent != 1 {
		t.Errorf("Expected explicit parent 1, got %d", remote.Parent)
	}
	if remote.ExecutionThread != 1 || remote.CreationThread != 1 {
		t.Errorf("Expected remote span on thread 1, got %+v", remote)
	}
}

func TestReconstructCreationThread(t *testing.T) {
	// Span 2 is allocated on thread 0 but runs on thread 1.
	reg := pushAll(
		[]RawEvent{newSpan(1, 0, "main_task"), enter(1, 0), newSpan(2, 1, "job"), exit(1, 1000)},
		[]RawEvent{enter(2, 10), exit(2, 20)},
	)

	c, err := Reconstruct(reg, logr.Discard())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if job := c.Spans[2]; job.CreationThread != 0 || job.ExecutionThread != 1 {
		t.Errorf("Expected job created on 0 and run on 1, got %+v", job)
	}
}

func TestReconstructUnfinished(t *testing.T) {
	reg := pushAll(
		[]RawEvent{newSpan(1, 0, "main_task"), enter(1, 100), newSpan(2, 0, "stuck"), enter(2, 150)},
		[]RawEvent{newSpan(3, 1, "other"), enter(3, 200), exit(3, 700)},
	)

	c, err := Reconstruct(reg, logr.Discard())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.Unfinished != 2 {
		t.Errorf("Expected 2 unfinished spans, got %d", c.Unfinished)
	}
	if c.Entered != c.Exited+c.Unfinished || c.Entered != len(c.Spans) {
		t.Errorf("Inconsistent counts: %+v", c)
	}
	for _, id := range []uint64{1, 2} {
		if end := c.Spans[id].End; end != 600 {
			t.Errorf("Span %d: expected to be closed at 600, got %d", id, end)
		}
	}
}

func TestReconstructLabelAndUnknownField(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, zapcore.InfoLevel)

	reg := pushAll([]RawEvent{
		newSpan(1, 0, "main_task"),
		enter(1, 0),
		{Kind: EventStrField, ID: 1, Name: LabelField, Value: "renamed"},
		{Kind: EventStrField, ID: 1, Name: "color", Value: "red"},
		exit(1, 10),
	})

	c, err := Reconstruct(reg, log)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if name := c.Spans[1].Name; name != "renamed" {
		t.Errorf("Expected label to rename span, got %q", name)
	}
	if !strings.Contains(buf.String(), "dropping unrecognized span field") {
		t.Errorf("Expected a diagnostic for the unknown field, log was:\n%s", buf.String())
	}
}

func TestReconstructThreadWithoutSpans(t *testing.T) {
	var buf bytes.Buffer
	reg := pushAll(
		[]RawEvent{newSpan(1, 0, "main_task"), enter(1, 0), exit(1, 10)},
		nil,
	)
	// The second thread registered but has nothing recorded.
	if _, err := Reconstruct(reg, NewLogger(&buf, zapcore.InfoLevel)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "thread produced no spans") {
		t.Errorf("Expected a diagnostic for the idle thread, log was:\n%s", buf.String())
	}
}

func TestReconstructMisnestedExit(t *testing.T) {
	reg := pushAll([]RawEvent{
		newSpan(1, 0, "a"), enter(1, 0),
		newSpan(2, 0, "b"), enter(2, 1),
		exit(1, 2),
	})

	_, err := Reconstruct(reg, logr.Discard())
	if !errors.Is(err, ErrMisnestedExit) {
		t.Fatalf("Expected ErrMisnestedExit, got %v", err)
	}
	if reg.Logs()[0].Len() != 5 {
		t.Error("Expected logs to be left untouched on error")
	}
}

func TestReconstructExitWithoutEnter(t *testing.T) {
	reg := pushAll([]RawEvent{newSpan(1, 0, "a"), exit(1, 2)})
	if _, err := Reconstruct(reg, logr.Discard()); !errors.Is(err, ErrMisnestedExit) {
		t.Errorf("Expected ErrMisnestedExit, got %v", err)
	}
}

func TestReconstructWrongThread(t *testing.T) {
	reg := pushAll(
		[]RawEvent{newSpan(1, 0, "a"), enter(1, 0)},
		[]RawEvent{exit(1, 5)},
	)
	if _, err := Reconstruct(reg, logr.Discard()); !errors.Is(err, ErrWrongThread) {
		t.Errorf("Expected ErrWrongThread, got %v", err)
	}
}

func TestReconstructNeverEntered(t *testing.T) {
	reg := pushAll([]RawEvent{
		newSpan(1, 0, "main_task"), enter(1, 0),
		newSpan(2, 0, "ghost"),
		exit(1, 10),
	})
	if _, err := Reconstruct(reg, logr.Discard()); !errors.Is(err, ErrInconsistentCounts) {
		t.Errorf("Expected ErrInconsistentCounts, got %v", err)
	}
}

func TestReconstructEnteredTwice(t *testing.T) {
	reg := pushAll([]RawEvent{
		newSpan(1, 0, "main_task"),
		enter(1, 0), exit(1, 10),
		enter(1, 20), exit(1, 30),
	})
	if _, err := Reconstruct(reg, logr.Discard()); !errors.Is(err, ErrInconsistentCounts) {
		t.Errorf("Expected ErrInconsistentCounts, got %v", err)
	}
}

func TestReconstructResetsLogs(t *testing.T) {
	clock := clockz.NewFakeClockAt(testEpoch)
	rec := New().WithClock(clock)
	p := rec.Producer()

	s := p.Start("main_task")
	clock.Advance(time.Microsecond)
	s.End()

	first, err := rec.Collect()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(first.Spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(first.Spans))
	}

	second, err := rec.Collect()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(second.Spans) != 0 {
		t.Errorf("Expected drained logs to yield no span, got %d", len(second.Spans))
	}
}

func TestReconstructRebasesToZero(t *testing.T) {
	reg := pushAll(
		[]RawEvent{newSpan(1, 0, "main_task"), enter(1, 42_000), exit(1, 50_000)},
		[]RawEvent{newSpan(2, 1, "early"), enter(2, 41_000), exit(2, 43_000)},
	)
	c, err := Reconstruct(reg, logr.Discard())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	minStart := uint64(1 << 63)
	for _, s := range c.Spans {
		minStart = min(minStart, s.Start)
		if s.End < s.Start {
			t.Errorf("Span %d ends before it starts: %+v", s.ID, s)
		}
	}
	if minStart != 0 {
		t.Errorf("Expected earliest start to be 0, got %d", minStart)
	}
}

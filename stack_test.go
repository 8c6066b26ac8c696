package timelinez

import (
	"errors"
	"testing"
)

func TestSpanStackNesting(t *testing.T) {
	s := NewSpanStack()
	if _, ok := s.Current(); ok {
		t.Error("expected no current span on a new stack")
	}

	s.Enter(1)
	s.Enter(2)
	if id, _ := s.Current(); id != 2 {
		t.Errorf("expected current span 2, got %d", id)
	}
	if s.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", s.Depth())
	}

	if err := s.Exit(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, _ := s.Current(); id != 1 {
		t.Errorf("expected current span 1, got %d", id)
	}
	if err := s.Exit(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Depth() != 0 {
		t.Errorf("expected empty stack, got depth %d", s.Depth())
	}
}

func TestSpanStackMisnestedExit(t *testing.T) {
	s := NewSpanStack()
	s.Enter(1)
	s.Enter(2)

	err := s.Exit(1)
	if !errors.Is(err, ErrMisnestedExit) {
		t.Fatalf("expected ErrMisnestedExit, got %v", err)
	}
	if id, _ := s.Current(); id != 2 {
		t.Errorf("expected stack to be unchanged, current is %d", id)
	}

	if err := NewSpanStack().Exit(5); !errors.Is(err, ErrMisnestedExit) {
		t.Errorf("expected ErrMisnestedExit on empty stack, got %v", err)
	}
}

func TestSpanStackDeep(t *testing.T) {
	s := NewSpanStack()
	depth := 3*stackBlockSize + 1
	for i := 1; i <= depth; i++ {
		s.Enter(uint64(i))
	}
	for i := depth; i >= 1; i-- {
		if err := s.Exit(uint64(i)); err != nil {
			t.Fatalf("exit %d: %v", i, err)
		}
	}
}

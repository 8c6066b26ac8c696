package timelinez

import (
	"sync"
	"testing"
)

func TestRegistryOrdinals(t *testing.T) {
	r := NewRegistry()
	for want := 0; want < 3; want++ {
		ordinal, s := r.Register()
		if ordinal != want {
			t.Errorf("expected ordinal %d, got %d", want, ordinal)
		}
		if s == nil {
			t.Fatal("expected a storage")
		}
	}
	if r.Len() != 3 {
		t.Errorf("expected 3 logs, got %d", r.Len())
	}
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := NewRegistry()
	const workers = 50

	var wg sync.WaitGroup
	ordinals := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ordinals[i], _ = r.Register()
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, o := range ordinals {
		if seen[o] {
			t.Errorf("ordinal %d handed out twice", o)
		}
		seen[o] = true
	}
	if r.Len() != workers {
		t.Errorf("expected %d logs, got %d", workers, r.Len())
	}
}

func TestRegistryResetAll(t *testing.T) {
	r := NewRegistry()
	_, a := r.Register()
	_, b := r.Register()
	a.Push(RawEvent{Kind: EventEnter, ID: 1})
	b.Push(RawEvent{Kind: EventEnter, ID: 2})

	r.ResetAll()

	if a.Len() != 0 || b.Len() != 0 {
		t.Errorf("expected empty logs after reset, got %d and %d", a.Len(), b.Len())
	}
	if r.Len() != 2 {
		t.Errorf("expected threads to stay registered, got %d", r.Len())
	}
}

package timelinez

import "testing"

func TestBlockListOrder(t *testing.T) {
	var l blockList[int]
	if !l.Empty() {
		t.Fatal("expected new list to be empty")
	}

	for i := 1; i <= 3; i++ {
		l.PushFront(i)
	}

	if v, ok := l.Front(); !ok || v != 3 {
		t.Errorf("expected front 3, got %d (ok=%v)", v, ok)
	}

	var got []int
	for v := range l.All() {
		got = append(got, v)
	}
	want := []int{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestBlockListPopAndReset(t *testing.T) {
	var l blockList[string]
	l.PushFront("a")
	l.PushFront("b")

	if v, ok := l.PopFront(); !ok || v != "b" {
		t.Errorf("expected to pop b, got %q (ok=%v)", v, ok)
	}
	if v, ok := l.PopFront(); !ok || v != "a" {
		t.Errorf("expected to pop a, got %q (ok=%v)", v, ok)
	}
	if _, ok := l.PopFront(); ok {
		t.Error("expected pop on empty list to fail")
	}
	if _, ok := l.Front(); ok {
		t.Error("expected front on empty list to fail")
	}

	l.PushFront("c")
	l.Reset()
	if !l.Empty() {
		t.Error("expected list to be empty after reset")
	}
}

func TestBlockListEarlyBreak(t *testing.T) {
	var l blockList[int]
	for i := 0; i < 10; i++ {
		l.PushFront(i)
	}
	count := 0
	for range l.All() {
		count++
		if count == 4 {
			break
		}
	}
	if count != 4 {
		t.Errorf("expected iteration to stop after 4 values, got %d", count)
	}
}

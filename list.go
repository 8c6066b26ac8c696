package timelinez

import "iter"

// listNode is one link of a blockList.
type listNode[T any] struct {
	value T
	next  *listNode[T]
}

// blockList is a singly-linked, prepend-only chain of values.
// Only the goroutine owning the enclosing Storage mutates it.
type blockList[T any] struct {
	head *listNode[T]
}

// PushFront makes value the new head.
func (l *blockList[T]) PushFront(value T) {
	l.head = &listNode[T]{value: value, next: l.head}
}

// Front returns the head value.
func (l *blockList[T]) Front() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	return l.head.value, true
}

// PopFront unlinks and returns the head value.
func (l *blockList[T]) PopFront() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	node := l.head
	l.head = node.next
	node.next = nil
	return node.value, true
}

// Empty reports whether the list holds no node.
func (l *blockList[T]) Empty() bool {
	return l.head == nil
}

// All yields values from head to tail.
func (l *blockList[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for node := l.head; node != nil; node = node.next {
			if !yield(node.value) {
				return
			}
		}
	}
}

// Reset drops every node.
func (l *blockList[T]) Reset() {
	l.head = nil
}

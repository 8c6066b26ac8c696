package timelinez

import "iter"

// BlockSize is the number of elements held by one storage block.
const BlockSize = 10_000

// block is a fixed-capacity contiguous buffer, append-only until full.
type block[T any] struct {
	data []T
}

func newBlock[T any](capacity int) *block[T] {
	return &block[T]{data: make([]T, 0, capacity)}
}

func (b *block[T]) full() bool  { return len(b.data) == cap(b.data) }
func (b *block[T]) empty() bool { return len(b.data) == 0 }

func (b *block[T]) push(v T) {
	b.data = append(b.data, v)
}

func (b *block[T]) pop() (T, bool) {
	var zero T
	if len(b.data) == 0 {
		return zero, false
	}
	last := len(b.data) - 1
	v := b.data[last]
	b.data[last] = zero
	b.data = b.data[:last]
	return v, true
}

func (b *block[T]) last() (T, bool) {
	if len(b.data) == 0 {
		var zero T
		return zero, false
	}
	return b.data[len(b.data)-1], true
}

// Storage is an append log with worst-case O(1) Push.
// Elements live in a chain of fixed-capacity blocks, newest block first;
// a new block is allocated only when the head block is full, so no
// element is ever copied after it was pushed.
//
// Storage is NOT safe for concurrent use. Exactly one goroutine mutates a
// given Storage; other goroutines may read it with All only after that
// goroutine is known to have stopped pushing.
type Storage[T any] struct {
	blocks    blockList[*block[T]]
	blockSize int
	length    int
}

// NewStorage creates an empty storage of BlockSize-element blocks.
// The first block is allocated by the first Push.
func NewStorage[T any]() *Storage[T] {
	return newStorage[T](BlockSize)
}

func newStorage[T any](blockSize int) *Storage[T] {
	return &Storage[T]{blockSize: blockSize}
}

// Push appends v.
func (s *Storage[T]) Push(v T) {
	head, ok := s.blocks.Front()
	if !ok || head.full() {
		head = newBlock[T](s.blockSize)
		s.blocks.PushFront(head)
	}
	head.push(v)
	s.length++
}

// Pop removes and returns the most recently pushed element.
// The head block is dropped once it becomes empty.
func (s *Storage[T]) Pop() (T, bool) {
	var zero T
	head, ok := s.blocks.Front()
	if !ok {
		return zero, false
	}
	v, ok := head.pop()
	if head.empty() {
		s.blocks.PopFront()
	}
	if !ok {
		return zero, false
	}
	s.length--
	return v, true
}

// Last returns the most recently pushed element without removing it.
func (s *Storage[T]) Last() (T, bool) {
	head, ok := s.blocks.Front()
	if !ok {
		var zero T
		return zero, false
	}
	return head.last()
}

// Len returns the number of stored elements.
func (s *Storage[T]) Len() int {
	return s.length
}

// All yields every element in push order, oldest first.
func (s *Storage[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		var blocks []*block[T]
		for b := range s.blocks.All() {
			blocks = append(blocks, b)
		}
		for i := len(blocks) - 1; i >= 0; i-- {
			for _, v := range blocks[i].data {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Reset discards every block. Nothing is allocated until the next Push.
func (s *Storage[T]) Reset() {
	s.blocks.Reset()
	s.length = 0
}

package timelinez

import "fmt"

// stackBlockSize matches the capacity of one span-stack block.
const stackBlockSize = 4096

// SpanStack tracks the spans currently entered on one thread.
// Like Storage it has a single writer.
type SpanStack struct {
	ids *Storage[uint64]
}

// NewSpanStack creates an empty stack.
func NewSpanStack() *SpanStack {
	return &SpanStack{ids: newStorage[uint64](stackBlockSize)}
}

// Enter pushes id.
func (s *SpanStack) Enter(id uint64) {
	s.ids.Push(id)
}

// Exit pops the top of the stack, which must be id.
func (s *SpanStack) Exit(id uint64) error {
	top, ok := s.ids.Pop()
	if !ok {
		return fmt.Errorf("%w: exit of span %d with no span entered", ErrMisnestedExit, id)
	}
	if top != id {
		// Keep the stack as it was so the caller may still inspect it.
		s.ids.Push(top)
		return fmt.Errorf("%w: exit of span %d while span %d is current", ErrMisnestedExit, id, top)
	}
	return nil
}

// Current returns the innermost entered span.
func (s *SpanStack) Current() (uint64, bool) {
	return s.ids.Last()
}

// Depth returns the number of entered spans.
func (s *SpanStack) Depth() int {
	return s.ids.Len()
}

func (s *SpanStack) reset() {
	s.ids.Reset()
}

package timelinez

import "sync"

// Registry lists every per-thread event log in registration order.
// The lock is only taken when a thread registers or when the whole list
// is read, never while events are pushed.
type Registry struct {
	logs []*Storage[RawEvent]
	mu   sync.Mutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register creates a new event log and returns its thread ordinal.
func (r *Registry) Register() (int, *Storage[RawEvent]) {
	s := NewStorage[RawEvent]()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, s)
	return len(r.logs) - 1, s
}

// Logs returns a snapshot of the registered logs, indexed by ordinal.
func (r *Registry) Logs() []*Storage[RawEvent] {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs := make([]*Storage[RawEvent], len(r.logs))
	copy(logs, r.logs)
	return logs
}

// Len returns the number of registered threads.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

// ResetAll clears every registered log. Threads stay registered and keep
// their ordinals. No producer may be pushing while ResetAll runs.
func (r *Registry) ResetAll() {
	for _, s := range r.Logs() {
		s.Reset()
	}
}

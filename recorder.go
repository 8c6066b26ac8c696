package timelinez

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/zoobzio/clockz"
)

// RootName is the reserved name of the single top-level span.
const RootName = "main_task"

// Recorder owns the event logs of every thread and allocates span ids.
// Safe for concurrent use by multiple goroutines; each goroutine records
// through its own Producer.
//
//nolint:govet // Field order optimized for functionality over memory
type Recorder struct {
	registry *Registry
	clock    clockz.Clock
	epoch    time.Time
	log      logr.Logger
	main     *Producer
	mainOnce sync.Once
	nextID   atomic.Uint64
}

// New creates a new recorder.
// Uses the real clock for production behavior.
func New() *Recorder {
	return newRecorder(clockz.RealClock, logr.Discard())
}

func newRecorder(clock clockz.Clock, log logr.Logger) *Recorder {
	return &Recorder{
		registry: NewRegistry(),
		clock:    clock,
		epoch:    clock.Now(),
		log:      log,
	}
}

// WithClock returns a new recorder with the specified clock.
// Enables clock injection for deterministic testing.
func (r *Recorder) WithClock(clock clockz.Clock) *Recorder {
	return newRecorder(clock, r.log)
}

// WithLogger returns a new recorder reporting diagnostics to log.
func (r *Recorder) WithLogger(log logr.Logger) *Recorder {
	return newRecorder(r.clock, log)
}

// Now returns the nanoseconds elapsed since the recorder's epoch.
func (r *Recorder) Now() uint64 {
	d := r.clock.Now().Sub(r.epoch)
	if d < 0 {
		return 0
	}
	return uint64(d)
}

// Producer returns a new capture context for one logical thread.
// Its event log is registered when it records its first event.
func (r *Recorder) Producer() *Producer {
	return newProducer(r)
}

// Registry returns the registry holding every thread's event log.
func (r *Recorder) Registry() *Registry {
	return r.registry
}

// ResetAll clears every registered event log, starting a fresh
// collection cycle. No producer may be recording while it runs.
func (r *Recorder) ResetAll() {
	r.registry.ResetAll()
}

// Collect declares the collection boundary and reconstructs the spans
// recorded since the last reset. Every producer must have stopped
// recording, e.g. because its goroutine was joined.
func (r *Recorder) Collect() (*Collection, error) {
	return Reconstruct(r.registry, r.log)
}

// Capture resets all logs, runs fn inside a root span named RootName
// recorded on the recorder's own producer, and collects the result.
// fn must join every goroutine it starts before returning. If fn panics
// the panic propagates and the next Capture starts from a clean state.
func (r *Recorder) Capture(fn func(p *Producer)) (*Collection, error) {
	r.mainOnce.Do(func() {
		r.main = r.Producer()
	})

	r.ResetAll()
	root := r.main.Start(RootName)
	done := false
	defer func() {
		if !done {
			// fn panicked, possibly with spans still entered. Leave the
			// root open and let the panic through unchanged.
			r.main.stack.reset()
		}
	}()
	fn(r.main)
	done = true
	root.End()
	return r.Collect()
}

// Package timelinez records span enter/exit events from many goroutines
// at near-zero cost and reconstructs them into a validated span tree.
//
// Recording goes through three stages:
//   - every logical thread appends raw events to its own block-chunked
//     log, without locking and with worst-case O(1) cost per event;
//   - once recording stopped, Collect replays every log, in registration
//     order, into a map of resolved Spans;
//   - package layout turns those spans into a sized, positioned diagram
//     and package svg draws it.
//
// Basic Usage:
//
//	rec := timelinez.New()
//
//	collection, err := rec.Capture(func(p *timelinez.Producer) {
//		span := p.Start("load")
//		load()
//		span.End()
//
//		_ = p.Parallel(ctx, "shard",
//			func(ctx context.Context, p *timelinez.Producer) error { return shard(ctx, p, 0) },
//			func(ctx context.Context, p *timelinez.Producer) error { return shard(ctx, p, 1) },
//		)
//	})
//
// Threads:
//
// A Producer stands for one logical thread. It owns its event log and
// span stack and must only be used by one goroutine at a time; spans
// entered on a Producer must be exited on the same Producer, innermost
// first. Span ids come from a recorder-wide atomic counter and may be
// handed across goroutines to name explicit parents.
//
// Collection:
//
// Collect must only run after every Producer stopped recording. It
// returns an error wrapping ErrMisnestedExit, ErrWrongThread or
// ErrInconsistentCounts when the recorded events break the nesting
// contract. Spans still entered at that point are closed at the latest
// recorded timestamp. Call ResetAll to discard recorded events.
package timelinez

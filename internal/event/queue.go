package event

import (
	"sync/atomic"
	"time"

	"github.com/pathkv/pathkv/internal/pathkvlog"
	"github.com/pathkv/pathkv/pkg/types"
)

// OverflowPolicy selects what happens when the producer would overwrite an
// unread ring entry.
type OverflowPolicy int

const (
	// DropOldest discards the oldest unread event and increments a drop
	// counter the consumer can read on its next drain. This is the
	// default: blocking commits on a slow consumer is unacceptable for
	// the storage engine's latency contract.
	DropOldest OverflowPolicy = iota
	// Block makes the committing thread wait for space. Not the
	// default; provided for hosts that would rather apply backpressure
	// than lose events.
	Block
)

// Queue is a single-producer/single-consumer lock-free ring of completed
// events for out-of-process consumers. Exactly one goroutine may
// call Push (the engine's committing goroutine) and exactly one may call
// PopBatch/Pending (a host-side drain thread/loop); this is the SPSC
// contract the ring's atomic head/tail counters rely on.
//
// This implementation is built directly on the standard library's
// sync/atomic acquire/release primitives: atomic head/tail counters with
// acquire/release ordering, no buffered channel, no mutex on the hot
// path. See DESIGN.md for why no third-party ring library was used.
type Queue struct {
	capacity uint64 // power of two
	mask     uint64
	buf      []types.Event
	occupied []uint32 // 0 = empty, 1 = filled; written with atomic Store/Load

	head     atomic.Uint64 // next slot the consumer will read
	tail     atomic.Uint64 // next slot the producer will write
	seq      atomic.Uint64 // monotonic event sequence counter
	dropped  atomic.Uint64
	policy   OverflowPolicy
}

// NewQueue returns a Queue whose capacity is the next power of two >= n
// (minimum 16).
func NewQueue(n int, policy OverflowPolicy) *Queue {
	cap := uint64(16)
	for cap < uint64(n) {
		cap <<= 1
	}
	return &Queue{
		capacity: cap,
		mask:     cap - 1,
		buf:      make([]types.Event, cap),
		occupied: make([]uint32, cap),
		policy:   policy,
	}
}

// Push appends ev, stamping it with the next monotonic sequence number and
// the current wall time. Under DropOldest it never blocks: if the ring is
// full it advances head past the oldest entry and records a drop. Under
// Block it spins (with a short sleep) until the consumer frees a slot.
func (q *Queue) Push(ev types.Event) {
	ev.Sequence = q.seq.Add(1)
	ev.WallTime = wallNow()

	for {
		tail := q.tail.Load()
		head := q.head.Load()
		if tail-head >= q.capacity {
			if q.policy == DropOldest {
				q.head.CompareAndSwap(head, head+1)
				n := q.dropped.Add(1)
				if n == 1 {
					pathkvlog.Warn("event queue overflowed, dropping oldest entries")
				}
				continue
			}
			time.Sleep(time.Microsecond)
			continue
		}
		slot := tail & q.mask
		q.buf[slot] = ev
		atomic.StoreUint32(&q.occupied[slot], 1)
		q.tail.CompareAndSwap(tail, tail+1)
		return
	}
}

// PopBatch drains up to max pending events in commit order, advancing the
// consumer's read position. It returns fewer than max if fewer are
// pending.
func (q *Queue) PopBatch(max int) []types.Event {
	out := make([]types.Event, 0, max)
	for len(out) < max {
		head := q.head.Load()
		tail := q.tail.Load()
		if head >= tail {
			break
		}
		slot := head & q.mask
		if atomic.LoadUint32(&q.occupied[slot]) == 0 {
			break
		}
		out = append(out, q.buf[slot])
		atomic.StoreUint32(&q.occupied[slot], 0)
		q.head.CompareAndSwap(head, head+1)
	}
	return out
}

// Pending returns the number of events currently available to drain.
func (q *Queue) Pending() int {
	tail := q.tail.Load()
	head := q.head.Load()
	if tail <= head {
		return 0
	}
	return int(tail - head)
}

// DropsSinceLastCheck returns and resets the drop counter. PopBatch does
// not report drops, and no caller in this module calls this method or
// returns ErrQueueOverflow, so drops are not surfaced alongside a drained
// batch.
func (q *Queue) DropsSinceLastCheck() uint64 {
	return q.dropped.Swap(0)
}

// wallNow is isolated so tests can observe it is called without pinning a
// specific clock source.
func wallNow() time.Time { return time.Now() }

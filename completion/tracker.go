// File: completion/tracker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Zero-copy completion bookkeeping. One Tracker is owned by exactly one
// connection worker; no locking, by ownership.

package completion

import (
	"fmt"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/internal/errqueue"
)

// Reader drains one batch of completion notifications from a descriptor's
// error queue. ok is false when nothing was pending. Injectable so tests
// can feed synthetic ranges.
type Reader func(fd int) ([]errqueue.Range, bool, error)

// record is one queued zero-copy send awaiting kernel confirmation.
type record struct {
	seq   uint32
	bytes int
}

// Tracker counts zero-copy sends whose pages the kernel may still be
// reading. The invariant it protects: the owning message's segments must
// not be released until Pending reaches zero (or the teardown retry budget
// is exhausted, which is a documented risk window).
type Tracker struct {
	pending     uint32
	nextSeq     uint32
	inflight    *queue.Queue
	confirmed   uint64
	completions uint64
	read        Reader
}

// NewTracker returns a Tracker draining the real socket error queue.
func NewTracker() *Tracker {
	return NewTrackerWithReader(errqueue.ReadCompletions)
}

// NewTrackerWithReader returns a Tracker using a custom notification reader.
func NewTrackerWithReader(r Reader) *Tracker {
	return &Tracker{
		inflight: queue.New(),
		read:     r,
	}
}

// Note registers one successfully queued zero-copy send of the given byte
// count. Sequence numbers mirror the kernel's per-socket send counter.
func (t *Tracker) Note(bytes int) {
	t.inflight.Add(record{seq: t.nextSeq, bytes: bytes})
	t.nextSeq++
	t.pending++
}

// Pending returns the number of sends not yet confirmed complete.
func (t *Tracker) Pending() uint32 { return t.pending }

// ConfirmedBytes returns the total bytes covered by drained completions.
func (t *Tracker) ConfirmedBytes() uint64 { return t.confirmed }

// Completions returns the total number of sends confirmed complete.
func (t *Tracker) Completions() uint64 { return t.completions }

// Apply credits one completion range against the pending counter. The
// decrement is floored at zero: a duplicate or stale notification must
// never drive the counter negative.
func (t *Tracker) Apply(r errqueue.Range) uint32 {
	n := r.Count()
	if n > t.pending {
		n = t.pending
	}
	t.pending -= n
	t.completions += uint64(n)
	for i := uint32(0); i < n && t.inflight.Length() > 0; i++ {
		rec := t.inflight.Remove().(record)
		t.confirmed += uint64(rec.bytes)
	}
	return n
}

// Drain reads the error queue until no notification remains, crediting
// every zero-copy range found. Returns the number of completions credited.
func (t *Tracker) Drain(fd int) (int, error) {
	total := 0
	for {
		ranges, ok, err := t.read(fd)
		if err != nil {
			return total, err
		}
		if !ok {
			return total, nil
		}
		for _, r := range ranges {
			total += int(t.Apply(r))
		}
	}
}

// AwaitQuiesce is the teardown barrier: it drains until Pending reaches
// zero, sleeping backoff between attempts, for at most retries attempts.
// Exceeding the budget returns a wrapped ErrDrainTimeout; the caller is
// expected to release buffers regardless and surface a warning.
func (t *Tracker) AwaitQuiesce(fd int, retries int, backoff time.Duration) error {
	for attempt := 0; t.pending > 0 && attempt < retries; attempt++ {
		if _, err := t.Drain(fd); err != nil {
			return err
		}
		if t.pending > 0 {
			time.Sleep(backoff)
		}
	}
	if t.pending > 0 {
		return fmt.Errorf("%w: %d completions still outstanding", api.ErrDrainTimeout, t.pending)
	}
	return nil
}

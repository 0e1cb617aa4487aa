// File: strategy/zerocopy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Zero-copy variant: sendmsg with MSG_ZEROCOPY. The kernel pins the
// segment pages and lets the NIC read them directly; the user-to-kernel
// copy disappears, replaced by an asynchronous completion obligation
// tracked per connection.

package strategy

import (
	"fmt"
	"time"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/completion"
	"github.com/momentics/zerosend/internal/sock"
	"github.com/momentics/zerosend/payload"
)

// Zero-copy tuning knobs.
const (
	// drainThreshold is the outstanding-send count at which pending
	// completions are proactively drained from the error queue.
	drainThreshold = 256

	// enobufsBackoff is the pause before retrying a send that failed with
	// the zero-copy queue full.
	enobufsBackoff = 100 * time.Microsecond

	// teardownRetries and teardownBackoff bound the drain-to-zero barrier
	// at worker teardown.
	teardownRetries = 1000
	teardownBackoff = time.Millisecond
)

// ZeroCopy queues each message with MSG_ZEROCOPY and tracks outstanding
// completions. Send returning success only means the operation is queued;
// the segments stay pinned until the tracker confirms completion.
type ZeroCopy struct {
	segs    [][]byte
	tracker *completion.Tracker

	enable  func(fd int) error
	send    func(fd int, bufs [][]byte) (int, error)
	sleep   func(d time.Duration)
	running func() bool
}

// NewZeroCopy returns the zero-copy sender backed by the real syscalls.
func NewZeroCopy() *ZeroCopy {
	return &ZeroCopy{
		tracker: completion.NewTracker(),
		enable:  sock.EnableZeroCopy,
		send:    sock.SendmsgZeroCopy,
		sleep:   time.Sleep,
		running: func() bool { return true },
	}
}

// BindRunning ties the backpressure retry loop to an external run
// condition. Once the condition trips, a retry that would otherwise spin
// on a full zero-copy queue aborts with ErrResourceExhausted instead.
func (z *ZeroCopy) BindRunning(running func() bool) {
	if running != nil {
		z.running = running
	}
}

// Name implements Sender.
func (z *ZeroCopy) Name() string { return NameZeroCopy }

// Tracker exposes the completion bookkeeping for reporting.
func (z *ZeroCopy) Tracker() *completion.Tracker { return z.tracker }

// Prepare enables SO_ZEROCOPY on the descriptor and builds the reusable
// segment descriptor. An enable failure means the host kernel cannot run
// this variant and is fatal to the worker.
func (z *ZeroCopy) Prepare(fd int, msg *payload.Message) error {
	if err := z.enable(fd); err != nil {
		return fmt.Errorf("enable zero-copy (kernel >= 4.14 required): %w", err)
	}
	z.segs = msg.Segments()
	return nil
}

// Send queues one zero-copy transmission.
//
// ENOBUFS is the backpressure path: too many sends are in flight, so
// available completions are drained, the attempt backs off briefly and
// retries. The retry loop is bounded only by the run condition set with
// BindRunning. Every successful send is noted with the tracker, which is
// drained whenever the outstanding count reaches the threshold.
func (z *ZeroCopy) Send(fd int) (int, error) {
	for {
		n, err := z.send(fd, z.segs)
		if err != nil {
			if sock.IsIntr(err) {
				continue
			}
			if sock.IsNoBufs(err) {
				if _, derr := z.tracker.Drain(fd); derr != nil {
					return 0, fmt.Errorf("%w: drain after ENOBUFS: %v", api.ErrResourceExhausted, derr)
				}
				z.sleep(enobufsBackoff)
				if !z.running() {
					return 0, fmt.Errorf("%w: zero-copy queue still full at stop", api.ErrResourceExhausted)
				}
				continue
			}
			return 0, classify("sendmsg MSG_ZEROCOPY", err)
		}
		if n == 0 {
			return 0, api.ErrPeerClosed
		}

		z.tracker.Note(n)
		if z.tracker.Pending() >= drainThreshold {
			if _, err := z.tracker.Drain(fd); err != nil {
				return n, err
			}
		}
		return n, nil
	}
}

// Teardown drains until the outstanding count reaches zero or the retry
// budget runs out. The returned drain-timeout error is a warning, not a
// fatal condition: the caller releases the buffers regardless, accepting
// the documented risk window.
func (z *ZeroCopy) Teardown(fd int) error {
	return z.tracker.AwaitQuiesce(fd, teardownRetries, teardownBackoff)
}

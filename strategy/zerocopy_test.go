// File: strategy/zerocopy_test.go
//go:build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package strategy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/completion"
	"github.com/momentics/zerosend/internal/errqueue"
)

// fakeQueue simulates the kernel's per-socket zero-copy notification
// stream: completions become readable as the fake NIC "finishes" sends.
type fakeQueue struct {
	completed uint32 // sequence numbers below this are done
	drained   uint32 // next sequence to report
	reads     int
}

func (q *fakeQueue) read(fd int) ([]errqueue.Range, bool, error) {
	q.reads++
	if q.drained >= q.completed {
		return nil, false, nil
	}
	r := errqueue.Range{Lo: q.drained, Hi: q.completed - 1}
	q.drained = q.completed
	return []errqueue.Range{r}, true, nil
}

func newTestZeroCopy(q *fakeQueue) *ZeroCopy {
	z := NewZeroCopy()
	z.tracker = completion.NewTrackerWithReader(q.read)
	z.enable = func(fd int) error { return nil }
	z.sleep = func(time.Duration) {}
	return z
}

func TestZeroCopyPrepareFailsWithoutKernelSupport(t *testing.T) {
	msg := buildMessage(t, 4096)

	z := NewZeroCopy()
	z.enable = func(fd int) error { return unix.ENOPROTOOPT }

	err := z.Prepare(-1, msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, unix.ENOPROTOOPT)
}

func TestZeroCopyNotesEverySend(t *testing.T) {
	msg := buildMessage(t, 4096)
	q := &fakeQueue{}

	z := newTestZeroCopy(q)
	z.send = func(fd int, bufs [][]byte) (int, error) { return 4096, nil }
	require.NoError(t, z.Prepare(-1, msg))

	for i := 0; i < 10; i++ {
		n, err := z.Send(-1)
		require.NoError(t, err)
		assert.Equal(t, 4096, n)
	}
	assert.Equal(t, uint32(10), z.Tracker().Pending())
	assert.Zero(t, q.reads, "below the threshold no drain happens")
}

func TestZeroCopyDrainsAtThreshold(t *testing.T) {
	msg := buildMessage(t, 4096)
	q := &fakeQueue{}

	z := newTestZeroCopy(q)
	sends := uint32(0)
	z.send = func(fd int, bufs [][]byte) (int, error) {
		sends++
		q.completed = sends // fake NIC completes instantly
		return 4096, nil
	}
	require.NoError(t, z.Prepare(-1, msg))

	for i := 0; i < drainThreshold; i++ {
		_, err := z.Send(-1)
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(0), z.Tracker().Pending())
	assert.Positive(t, q.reads)
	assert.Equal(t, uint64(drainThreshold*4096), z.Tracker().ConfirmedBytes())
}

func TestZeroCopyBackpressureDrainsAndRetries(t *testing.T) {
	// Simulated ENOBUFS on the 50th send: exactly one drain-and-backoff
	// cycle must run before the attempt succeeds.
	msg := buildMessage(t, 4096)
	q := &fakeQueue{}

	z := newTestZeroCopy(q)
	sleeps := 0
	z.sleep = func(time.Duration) { sleeps++ }

	attempts := 0
	successes := uint32(0)
	z.send = func(fd int, bufs [][]byte) (int, error) {
		attempts++
		if attempts == 50 {
			q.completed = successes // all prior sends become drainable
			return 0, unix.ENOBUFS
		}
		successes++
		return 4096, nil
	}
	require.NoError(t, z.Prepare(-1, msg))

	for i := 0; i < 50; i++ {
		n, err := z.Send(-1)
		require.NoError(t, err)
		assert.Equal(t, 4096, n)
	}

	assert.Equal(t, 51, attempts, "the 50th message needs one extra attempt")
	assert.Equal(t, 1, sleeps, "exactly one backoff cycle")
	// 49 completions were drained; only the retried 50th send is pending.
	assert.Equal(t, uint32(1), z.Tracker().Pending())
	assert.Equal(t, uint64(49*4096), z.Tracker().ConfirmedBytes())
}

func TestZeroCopyBackpressureStopsWithRunCondition(t *testing.T) {
	// The queue never frees up and no completion ever arrives. The retry
	// loop must still exit once the run condition trips instead of
	// spinning forever.
	msg := buildMessage(t, 4096)
	q := &fakeQueue{}

	z := newTestZeroCopy(q)
	running := true
	z.BindRunning(func() bool { return running })
	sleeps := 0
	z.sleep = func(time.Duration) {
		sleeps++
		if sleeps == 3 {
			running = false
		}
	}
	z.send = func(fd int, bufs [][]byte) (int, error) { return 0, unix.ENOBUFS }
	require.NoError(t, z.Prepare(-1, msg))

	_, err := z.Send(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrResourceExhausted)
	assert.Equal(t, 3, sleeps, "one backoff per retry until the condition trips")
}

func TestZeroCopyTeardownDrainsToZero(t *testing.T) {
	msg := buildMessage(t, 4096)
	q := &fakeQueue{}

	z := newTestZeroCopy(q)
	sent := uint32(0)
	z.send = func(fd int, bufs [][]byte) (int, error) {
		sent++
		return 4096, nil
	}
	require.NoError(t, z.Prepare(-1, msg))

	for i := 0; i < 5; i++ {
		_, err := z.Send(-1)
		require.NoError(t, err)
	}
	require.Equal(t, uint32(5), z.Tracker().Pending())

	q.completed = sent
	require.NoError(t, z.Teardown(-1))
	assert.Equal(t, uint32(0), z.Tracker().Pending())
}

func TestZeroCopyTeardownTimeoutIsWarning(t *testing.T) {
	msg := buildMessage(t, 4096)

	z := NewZeroCopy()
	// Notifications never arrive.
	z.tracker = completion.NewTrackerWithReader(func(fd int) ([]errqueue.Range, bool, error) {
		return nil, false, nil
	})
	z.enable = func(fd int) error { return nil }
	z.sleep = func(time.Duration) {}
	z.send = func(fd int, bufs [][]byte) (int, error) { return 4096, nil }
	require.NoError(t, z.Prepare(-1, msg))

	_, err := z.Send(-1)
	require.NoError(t, err)

	err = z.Teardown(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrDrainTimeout)
}

func TestZeroCopyPeerGone(t *testing.T) {
	msg := buildMessage(t, 4096)
	q := &fakeQueue{}

	z := newTestZeroCopy(q)
	z.send = func(fd int, bufs [][]byte) (int, error) { return 0, unix.EPIPE }
	require.NoError(t, z.Prepare(-1, msg))

	_, err := z.Send(-1)
	assert.ErrorIs(t, err, api.ErrConnectionLost)
	assert.False(t, errors.Is(err, api.ErrResourceExhausted))
}

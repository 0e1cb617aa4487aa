// File: strategy/gathered_test.go
//go:build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/zerosend/api"
)

func TestGatheredSendsOneCallPerMessage(t *testing.T) {
	msg := buildMessage(t, 4096)

	s := NewGatheredCopy()
	calls := 0
	s.writev = func(fd int, bufs [][]byte) (int, error) {
		calls++
		assert.Len(t, bufs, 8)
		total := 0
		for _, b := range bufs {
			total += len(b)
		}
		return total, nil
	}
	require.NoError(t, s.Prepare(-1, msg))

	for i := 0; i < 3; i++ {
		n, err := s.Send(-1)
		require.NoError(t, err)
		assert.Equal(t, 4096, n)
	}
	assert.Equal(t, 3, calls)
}

func TestGatheredShortWriteCountsAsSent(t *testing.T) {
	// Accounting simplification: a short gathered write is not rewound,
	// only counted.
	msg := buildMessage(t, 4096)

	s := NewGatheredCopy()
	s.writev = func(fd int, bufs [][]byte) (int, error) { return 1000, nil }
	require.NoError(t, s.Prepare(-1, msg))

	n, err := s.Send(-1)
	require.NoError(t, err)
	assert.Equal(t, 1000, n)
}

func TestGatheredRetriesInterruptedCalls(t *testing.T) {
	msg := buildMessage(t, 4096)

	s := NewGatheredCopy()
	calls := 0
	s.writev = func(fd int, bufs [][]byte) (int, error) {
		calls++
		if calls == 1 {
			return 0, unix.EINTR
		}
		return 4096, nil
	}
	require.NoError(t, s.Prepare(-1, msg))

	n, err := s.Send(-1)
	require.NoError(t, err)
	assert.Equal(t, 4096, n)
	assert.Equal(t, 2, calls)
}

func TestGatheredErrorTaxonomy(t *testing.T) {
	msg := buildMessage(t, 4096)

	cases := []struct {
		name   string
		result func(fd int, bufs [][]byte) (int, error)
		want   error
	}{
		{"peer_closed", func(int, [][]byte) (int, error) { return 0, nil }, api.ErrPeerClosed},
		{"broken_pipe", func(int, [][]byte) (int, error) { return 0, unix.EPIPE }, api.ErrConnectionLost},
		{"reset", func(int, [][]byte) (int, error) { return 0, unix.ECONNRESET }, api.ErrConnectionLost},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewGatheredCopy()
			s.writev = tc.result
			require.NoError(t, s.Prepare(-1, msg))
			_, err := s.Send(-1)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

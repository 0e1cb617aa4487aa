// File: strategy/strategy_test.go
//go:build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/internal/sock"
)

func TestNewResolvesEveryName(t *testing.T) {
	for _, name := range Names() {
		s, err := New(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}
}

func TestNewRejectsUnknownName(t *testing.T) {
	_, err := New("sendfile")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

// Socketpair round trips for the two synchronous variants, checking the
// bytes the peer actually receives carry the segment fill pattern.
func TestSyncVariantsOverSocketpair(t *testing.T) {
	for _, name := range []string{NamePerSegment, NameGathered} {
		t.Run(name, func(t *testing.T) {
			local, remote, err := sock.Pair()
			require.NoError(t, err)
			defer sock.Close(local)
			defer sock.Close(remote)

			msg := buildMessage(t, 4096)
			s, err := New(name)
			require.NoError(t, err)
			require.NoError(t, s.Prepare(local, msg))

			n, err := s.Send(local)
			require.NoError(t, err)
			require.Equal(t, 4096, n)

			buf := make([]byte, 4096)
			read := 0
			for read < len(buf) {
				r, err := sock.Read(remote, buf[read:])
				require.NoError(t, err)
				require.Positive(t, r)
				read += r
			}
			// Segment i of 512 bytes is filled with 'A'+i.
			for i := 0; i < 8; i++ {
				assert.Equal(t, byte('A'+i), buf[i*512], "segment %d fill", i)
			}
			require.NoError(t, s.Teardown(local))
		})
	}
}

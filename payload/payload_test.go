// File: payload/payload_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package payload_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/payload"
)

func TestSegmentSizesSumToTotal(t *testing.T) {
	cases := []struct {
		total    int
		last     int
		perField int
	}{
		{total: 4096, perField: 512, last: 512},
		{total: 4100, perField: 512, last: 516}, // 4100 - 7*512 = 516
		{total: 8, perField: 1, last: 1},
		{total: 9, perField: 1, last: 2},
		{total: 65536, perField: 8192, last: 8192},
		{total: 7, perField: 0, last: 7},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("total_%d", tc.total), func(t *testing.T) {
			msg, err := payload.Build(tc.total)
			require.NoError(t, err)
			defer msg.Release()

			segs := msg.Segments()
			sum := 0
			for i, s := range segs {
				sum += len(s)
				if i < len(segs)-1 {
					assert.Equal(t, tc.perField, len(s), "segment %d", i)
				}
			}
			assert.Equal(t, tc.total, sum)
			assert.Equal(t, tc.last, len(segs[len(segs)-1]))
		})
	}
}

func TestDeterministicFill(t *testing.T) {
	msg, err := payload.Build(4096)
	require.NoError(t, err)
	defer msg.Release()

	for i, seg := range msg.Segments() {
		want := byte('A' + i%26)
		for j, b := range seg {
			if b != want {
				t.Fatalf("segment %d byte %d: got %q want %q", i, j, b, want)
			}
		}
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	msg, err := payload.Build(1024)
	require.NoError(t, err)

	msg.Release()
	assert.True(t, msg.Released())
	msg.Release() // second release must be a no-op
	assert.True(t, msg.Released())
	assert.Empty(t, msg.Segments())
}

func TestBuildRollsBackOnAllocationFailure(t *testing.T) {
	calls := 0
	failing := func(size int) ([]byte, error) {
		calls++
		if calls == 3 {
			return nil, errors.New("out of memory")
		}
		return make([]byte, size), nil
	}

	msg, err := payload.BuildWith(4096, failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrAllocation)
	assert.Nil(t, msg)
	assert.Equal(t, 3, calls, "allocation must stop at the first failure")
}

func TestBuildRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := payload.Build(size)
		assert.ErrorIs(t, err, api.ErrInvalidArgument, "size %d", size)
	}
}

func TestSegmentSize(t *testing.T) {
	assert.Equal(t, 512, payload.SegmentSize(4100, 0))
	assert.Equal(t, 516, payload.SegmentSize(4100, payload.SegmentCount-1))
}

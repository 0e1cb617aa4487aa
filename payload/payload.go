// File: payload/payload.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Multi-segment benchmark payload: allocation, deterministic fill, release.

package payload

import (
	"fmt"

	"github.com/momentics/zerosend/api"
)

// SegmentCount is the fixed number of independently allocated segments a
// message is split into. Sizing follows total/SegmentCount per segment with
// the last segment absorbing any remainder.
const SegmentCount = 8

// Allocator obtains one segment buffer of the requested size.
// The default allocator never fails; tests inject failing allocators to
// exercise the rollback path.
type Allocator func(size int) ([]byte, error)

func defaultAllocator(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// Message is an ordered, fixed-count sequence of byte segments whose
// lengths sum exactly to the requested total size. Segment buffers must
// remain untouched while any in-flight zero-copy send references them.
type Message struct {
	segments [SegmentCount][]byte
	total    int
}

// Build allocates and fills a Message of totalSize bytes.
//
// Segment i is filled with the repeating byte 'A'+i%26 so receivers can
// verify content independent of timing. On a mid-build allocation failure
// every already-allocated segment is released before the error returns.
func Build(totalSize int) (*Message, error) {
	return BuildWith(totalSize, defaultAllocator)
}

// BuildWith is Build with an explicit segment allocator.
func BuildWith(totalSize int, alloc Allocator) (*Message, error) {
	if totalSize <= 0 {
		return nil, fmt.Errorf("%w: message size must be positive, got %d", api.ErrInvalidArgument, totalSize)
	}
	if alloc == nil {
		alloc = defaultAllocator
	}

	m := &Message{total: totalSize}
	for i := 0; i < SegmentCount; i++ {
		size := SegmentSize(totalSize, i)
		buf, err := alloc(size)
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("%w: segment %d (%d bytes): %v", api.ErrAllocation, i, size, err)
		}
		fill := byte('A' + i%26)
		for j := range buf {
			buf[j] = fill
		}
		m.segments[i] = buf
	}
	return m, nil
}

// SegmentSize returns the length of segment i for a message of totalSize
// bytes: totalSize/SegmentCount, with the last segment absorbing the
// remainder so the lengths sum exactly to totalSize.
func SegmentSize(totalSize, i int) int {
	per := totalSize / SegmentCount
	if i == SegmentCount-1 {
		return per + totalSize%SegmentCount
	}
	return per
}

// TotalSize returns the configured total payload size.
func (m *Message) TotalSize() int { return m.total }

// Segments returns the live segment buffers in order. The returned slices
// alias the message's memory; callers must not retain them past Release.
func (m *Message) Segments() [][]byte {
	out := make([][]byte, 0, SegmentCount)
	for i := range m.segments {
		if m.segments[i] != nil {
			out = append(out, m.segments[i])
		}
	}
	return out
}

// Release drops every segment buffer. It is idempotent and safe to call on
// a partially built message.
func (m *Message) Release() {
	if m == nil {
		return
	}
	for i := range m.segments {
		m.segments[i] = nil
	}
}

// Released reports whether no segment buffers remain.
func (m *Message) Released() bool {
	for i := range m.segments {
		if m.segments[i] != nil {
			return false
		}
	}
	return true
}

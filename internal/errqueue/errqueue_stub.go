// File: internal/errqueue/errqueue_stub.go
//go:build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package errqueue

import "github.com/momentics/zerosend/api"

// Range is an inclusive span of completed zero-copy send counters.
type Range struct {
	Lo uint32
	Hi uint32
}

// Count returns the number of completed sends the range covers.
func (r Range) Count() uint32 { return r.Hi - r.Lo + 1 }

// ReadCompletions is unavailable off Linux.
func ReadCompletions(fd int) ([]Range, bool, error) {
	return nil, false, api.ErrNotSupported
}

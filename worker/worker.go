// File: worker/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared connection-worker plumbing: lifecycle states and configuration.

package worker

import "sync/atomic"

// State is a worker's lifecycle phase. Transitions are one-directional:
// Init -> Active -> Draining -> Closed. Only the zero-copy strategy does
// real work in Draining; other variants pass straight through.
type State int32

const (
	StateInit State = iota
	StateActive
	StateDraining
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateActive:
		return "active"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// state is the atomic holder embedded in both worker roles. The worker
// alone writes it; tests and diagnostics may read it concurrently.
type state struct {
	v atomic.Int32
}

func (s *state) set(to State) { s.v.Store(int32(to)) }

// State returns the current lifecycle phase.
func (s *state) State() State { return State(s.v.Load()) }

// Config bounds one connection worker.
type Config struct {
	// MessageSize is the exact wire size of one message.
	MessageSize int

	// MaxMessages, when non-zero, stops a sender after that many complete
	// messages. Used for fixed-count runs and tests; the normal benchmark
	// runs unbounded until the run flag trips.
	MaxMessages uint64
}

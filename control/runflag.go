// File: control/runflag.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cooperative cancellation token. Workers receive the flag at
// construction and poll it between iterations; only signal wiring and
// shutdown paths ever clear it.

package control

import (
	"os"
	"os/signal"
	"sync/atomic"
)

// RunFlag is a shared, read-mostly run/stop token. The zero value is
// running. Trip is one-way: a tripped flag never runs again.
type RunFlag struct {
	stopped atomic.Bool
}

// NewRunFlag returns a flag in the running state.
func NewRunFlag() *RunFlag { return &RunFlag{} }

// Running reports whether workers should keep iterating.
func (f *RunFlag) Running() bool { return !f.stopped.Load() }

// Trip clears the flag; every worker exits after its current iteration.
func (f *RunFlag) Trip() { f.stopped.Store(true) }

// BindSignals trips the flag on any of the given signals and invokes
// onTrip (if non-nil) once, from the signal goroutine. The returned stop
// function detaches the handler.
func (f *RunFlag) BindSignals(onTrip func(), sigs ...os.Signal) (stop func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, sigs...)
	done := make(chan struct{})
	go func() {
		select {
		case <-ch:
			f.Trip()
			if onTrip != nil {
				onTrip()
			}
		case <-done:
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

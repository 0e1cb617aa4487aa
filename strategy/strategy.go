// File: strategy/strategy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Transfer strategy contract and selection. All three variants transmit
// the same pre-built segment descriptors; they differ only in how many
// syscalls and user-to-kernel copies one message costs.

package strategy

import (
	"fmt"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/internal/sock"
	"github.com/momentics/zerosend/payload"
)

// Sender transmits one message instance per Send call over a connected
// descriptor. Implementations are owned by a single worker and are not
// safe for concurrent use.
type Sender interface {
	// Name identifies the variant in logs and reports.
	Name() string

	// Prepare binds the sender to a descriptor and a built message. The
	// segment descriptor is constructed once here and reused by every
	// subsequent Send.
	Prepare(fd int, msg *payload.Message) error

	// Send transmits one message attempt and returns the bytes the kernel
	// accepted. Terminal conditions surface as ErrPeerClosed or
	// ErrConnectionLost; interrupted calls are retried internally.
	Send(fd int) (int, error)

	// Teardown completes any asynchronous obligations before the message
	// buffers may be released. Only the zero-copy variant does real work
	// here; its error is the non-fatal drain-timeout warning.
	Teardown(fd int) error
}

// Variant names accepted by New and the CLI.
const (
	NamePerSegment = "persegment"
	NameGathered   = "gathered"
	NameZeroCopy   = "zerocopy"
)

// New returns the sender variant registered under name.
func New(name string) (Sender, error) {
	switch name {
	case NamePerSegment:
		return NewPerSegmentCopy(), nil
	case NameGathered:
		return NewGatheredCopy(), nil
	case NameZeroCopy:
		return NewZeroCopy(), nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q (want %s, %s or %s)",
			api.ErrInvalidArgument, name, NamePerSegment, NameGathered, NameZeroCopy)
	}
}

// Names lists the selectable strategy variants.
func Names() []string {
	return []string{NamePerSegment, NameGathered, NameZeroCopy}
}

// classify maps a transmit errno onto the engine's error taxonomy.
// Interrupted calls are handled by the callers' retry loops and never
// reach here.
func classify(op string, err error) error {
	if sock.IsPeerGone(err) {
		return fmt.Errorf("%w: %s: %v", api.ErrConnectionLost, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// File: strategy/persegment.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Baseline variant: one blocking write per segment, one user-to-kernel
// copy per call. Partial writes advance an offset until the segment is
// fully on the wire.

package strategy

import (
	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/internal/sock"
	"github.com/momentics/zerosend/payload"
)

// PerSegmentCopy is the two-copy baseline.
type PerSegmentCopy struct {
	segs  [][]byte
	write func(fd int, p []byte) (int, error)
}

// NewPerSegmentCopy returns the baseline sender.
func NewPerSegmentCopy() *PerSegmentCopy {
	return &PerSegmentCopy{write: sock.Write}
}

// Name implements Sender.
func (p *PerSegmentCopy) Name() string { return NamePerSegment }

// Prepare implements Sender.
func (p *PerSegmentCopy) Prepare(fd int, msg *payload.Message) error {
	p.segs = msg.Segments()
	return nil
}

// Send writes every segment in order, retrying interrupted calls and
// advancing past partial writes. A zero-length result means the peer
// closed the stream.
func (p *PerSegmentCopy) Send(fd int) (int, error) {
	total := 0
	for _, seg := range p.segs {
		off := 0
		for off < len(seg) {
			n, err := p.write(fd, seg[off:])
			if err != nil {
				if sock.IsIntr(err) {
					continue
				}
				return total, classify("write", err)
			}
			if n == 0 {
				return total, api.ErrPeerClosed
			}
			off += n
			total += n
		}
	}
	return total, nil
}

// Teardown implements Sender; the baseline has no asynchronous state.
func (p *PerSegmentCopy) Teardown(fd int) error { return nil }

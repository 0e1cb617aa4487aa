// File: strategy/gathered.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Consolidated variant: the whole message goes out in one gathered write,
// replacing N per-segment copies with a single consolidated one.

package strategy

import (
	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/internal/sock"
	"github.com/momentics/zerosend/payload"
)

// GatheredCopy issues exactly one writev per message attempt against a
// descriptor built once in Prepare.
//
// A short write is counted as that many bytes sent with no rewind of the
// remainder. That keeps accounting identical to the baseline's cost model
// rather than guaranteeing whole-message delivery per call; on a blocking
// TCP socket writev returns short only in rare corner cases.
type GatheredCopy struct {
	segs   [][]byte
	writev func(fd int, bufs [][]byte) (int, error)
}

// NewGatheredCopy returns the gathered-write sender.
func NewGatheredCopy() *GatheredCopy {
	return &GatheredCopy{writev: sock.Writev}
}

// Name implements Sender.
func (g *GatheredCopy) Name() string { return NameGathered }

// Prepare implements Sender.
func (g *GatheredCopy) Prepare(fd int, msg *payload.Message) error {
	g.segs = msg.Segments()
	return nil
}

// Send implements Sender.
func (g *GatheredCopy) Send(fd int) (int, error) {
	for {
		n, err := g.writev(fd, g.segs)
		if err != nil {
			if sock.IsIntr(err) {
				continue
			}
			return 0, classify("writev", err)
		}
		if n == 0 {
			return 0, api.ErrPeerClosed
		}
		return n, nil
	}
}

// Teardown implements Sender; a gathered write completes synchronously.
func (g *GatheredCopy) Teardown(fd int) error { return nil }

// File: worker/receiver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Client-role connection worker: blocking reads into a private buffer,
// counting complete messages against a wall-clock deadline. Identical
// for every server-side strategy; the wire carries no strategy marker.

package worker

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/control"
	"github.com/momentics/zerosend/internal/sock"
)

// Receiver owns one connected descriptor and drains it for a fixed
// duration. The deadline is checked between reads, not enforced by
// socket-level timeouts, so a read may overrun it mid-message.
type Receiver struct {
	state

	fd       int
	run      *control.RunFlag
	cfg      Config
	duration time.Duration
	log      zerolog.Logger
	metrics  *control.Metrics

	// now is a clock hook for deadline tests.
	now func() time.Time
}

// NewReceiver wires a receiver worker around a connected descriptor. The
// worker takes ownership of fd and closes it when Run returns. metrics
// may be nil.
func NewReceiver(fd int, run *control.RunFlag, cfg Config, duration time.Duration, log zerolog.Logger, m *control.Metrics) *Receiver {
	return &Receiver{
		fd:       fd,
		run:      run,
		cfg:      cfg,
		duration: duration,
		log:      log.With().Str("role", "receiver").Int("fd", fd).Logger(),
		metrics:  m,
		now:      time.Now,
	}
}

// Run executes the receive loop to completion.
func (w *Receiver) Run() (api.Result, error) {
	var res api.Result
	defer w.state.set(StateClosed)
	defer sock.Close(w.fd)

	buf := make([]byte, w.cfg.MessageSize)
	accumulated := 0

	w.state.set(StateActive)
	start := w.now()
	deadline := start.Add(w.duration)
	var fatal error

	for w.run.Running() && w.now().Before(deadline) {
		n, err := sock.Read(w.fd, buf[accumulated:])
		if err != nil {
			if sock.IsIntr(err) {
				continue
			}
			w.log.Error().Err(err).Msg("receive failed")
			fatal = err
			break
		}
		if n == 0 {
			w.log.Info().Msg("server closed connection")
			break
		}
		res.Bytes += uint64(n)
		accumulated += n
		if w.metrics != nil {
			w.metrics.RecvBytes.Add(n)
		}
		if accumulated >= w.cfg.MessageSize {
			res.Messages++
			accumulated = 0
			if w.metrics != nil {
				w.metrics.RecvMessages.Inc()
			}
		}
	}

	res.Elapsed = w.now().Sub(start)
	w.log.Info().
		Uint64("messages", res.Messages).
		Uint64("bytes", res.Bytes).
		Dur("elapsed", res.Elapsed).
		Float64("gbps", res.ThroughputGbps()).
		Float64("avg_latency_us", res.AvgLatencyMicros()).
		Msg("receiver finished")
	return res, fatal
}

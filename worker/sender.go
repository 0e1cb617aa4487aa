// File: worker/sender.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server-role connection worker: builds the payload once, then transmits
// it continuously with the configured strategy until stopped.

package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/completion"
	"github.com/momentics/zerosend/control"
	"github.com/momentics/zerosend/internal/sock"
	"github.com/momentics/zerosend/payload"
	"github.com/momentics/zerosend/strategy"
)

// Sender owns one connected descriptor and repeatedly transmits the same
// message instance. All mutable state is private to the worker.
type Sender struct {
	state

	fd      int
	strat   strategy.Sender
	run     *control.RunFlag
	cfg     Config
	log     zerolog.Logger
	metrics *control.Metrics
}

// NewSender wires a sender worker around an already connected descriptor.
// The worker takes ownership of fd and closes it when Run returns.
// metrics may be nil.
func NewSender(fd int, strat strategy.Sender, run *control.RunFlag, cfg Config, log zerolog.Logger, m *control.Metrics) *Sender {
	// Strategies with internal retry loops observe the same run flag the
	// worker polls, so a tripped flag stops them mid-backpressure too.
	if s, ok := strat.(interface{ BindRunning(func() bool) }); ok {
		s.BindRunning(run.Running)
	}
	return &Sender{
		fd:      fd,
		strat:   strat,
		run:     run,
		cfg:     cfg,
		log:     log.With().Str("role", "sender").Str("strategy", strat.Name()).Int("fd", fd).Logger(),
		metrics: m,
	}
}

// Run executes the worker to completion and returns its result. The error
// is non-nil only for fatal conditions (allocation, strategy setup, or a
// transmit failure other than the peer going away).
func (w *Sender) Run() (api.Result, error) {
	var res api.Result
	defer w.state.set(StateClosed)
	defer sock.Close(w.fd)

	msg, err := payload.Build(w.cfg.MessageSize)
	if err != nil {
		w.log.Error().Err(err).Msg("payload build failed")
		return res, err
	}
	// Single release path; the zero-copy drain barrier in teardown() runs
	// before this deferred release executes.
	defer msg.Release()

	if err := w.strat.Prepare(w.fd, msg); err != nil {
		w.log.Error().Err(err).Msg("strategy setup failed")
		return res, fmt.Errorf("prepare %s: %w", w.strat.Name(), err)
	}
	defer w.teardown()

	w.state.set(StateActive)
	start := time.Now()
	var fatal error

	for w.run.Running() {
		if w.cfg.MaxMessages > 0 && res.Messages >= w.cfg.MaxMessages {
			break
		}
		n, err := w.strat.Send(w.fd)
		res.Bytes += uint64(n)
		if n == w.cfg.MessageSize {
			res.Messages++
		}
		if w.metrics != nil {
			w.metrics.SentBytes.Add(n)
			if n == w.cfg.MessageSize {
				w.metrics.SentMessages.Inc()
			}
		}
		if err != nil {
			switch {
			case errors.Is(err, api.ErrPeerClosed):
				w.log.Info().Msg("peer closed connection")
			case errors.Is(err, api.ErrConnectionLost):
				w.log.Error().Err(err).Msg("connection lost")
			case errors.Is(err, api.ErrResourceExhausted):
				w.log.Warn().Err(err).Msg("stopping with zero-copy queue exhausted")
			default:
				w.log.Error().Err(err).Msg("transmit failed")
				fatal = err
			}
			break
		}
	}

	res.Elapsed = time.Since(start)
	w.log.Info().
		Uint64("messages", res.Messages).
		Uint64("bytes", res.Bytes).
		Dur("elapsed", res.Elapsed).
		Float64("gbps", res.ThroughputGbps()).
		Msg("sender finished")
	return res, fatal
}

// teardown runs the strategy's completion barrier. A drain timeout is a
// warning: buffers are released afterwards regardless, a known risk
// window inherited from the benchmark's design.
func (w *Sender) teardown() {
	w.state.set(StateDraining)
	if err := w.strat.Teardown(w.fd); err != nil {
		if errors.Is(err, api.ErrDrainTimeout) {
			w.log.Warn().Err(err).Msg("releasing buffers with completions outstanding")
		} else {
			w.log.Error().Err(err).Msg("completion drain failed")
		}
	}
	if src, ok := w.strat.(interface{ Tracker() *completion.Tracker }); ok {
		tr := src.Tracker()
		w.log.Info().
			Uint64("completions", tr.Completions()).
			Uint64("confirmed_bytes", tr.ConfirmedBytes()).
			Uint32("outstanding", tr.Pending()).
			Msg("zero-copy completion accounting")
		if w.metrics != nil {
			w.metrics.Completions.Add(int(tr.Completions()))
			w.metrics.ConfirmedBytes.Add(int(tr.ConfirmedBytes()))
		}
	}
}

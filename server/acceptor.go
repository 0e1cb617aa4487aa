// File: server/acceptor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TCP acceptor for the transmitting side: one detached sender worker per
// accepted connection, all sharing the run flag and metrics.

package server

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/control"
	"github.com/momentics/zerosend/internal/sock"
	"github.com/momentics/zerosend/strategy"
	"github.com/momentics/zerosend/worker"
)

// Acceptor listens on the configured port and spawns one sender worker
// per accepted client. It implements api.GracefulShutdown.
type Acceptor struct {
	cfg     control.ServerConfig
	run     *control.RunFlag
	log     zerolog.Logger
	metrics *control.Metrics

	listenFD int
	closed   atomic.Bool
	nextID   atomic.Uint64
	workers  *xsync.MapOf[uint64, *worker.Sender]
	wg       sync.WaitGroup
}

// NewAcceptor validates the configuration, resolves the strategy name and
// binds the listening socket. metrics may be nil.
func NewAcceptor(cfg control.ServerConfig, run *control.RunFlag, log zerolog.Logger, m *control.Metrics) (*Acceptor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := strategy.New(cfg.Strategy); err != nil {
		return nil, err
	}
	fd, err := sock.Listen(cfg.Port, control.ListenBacklog)
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}
	return &Acceptor{
		cfg:      cfg,
		run:      run,
		log:      log.With().Str("component", "acceptor").Int("port", cfg.Port).Logger(),
		metrics:  m,
		listenFD: fd,
		workers:  xsync.NewMapOf[uint64, *worker.Sender](),
	}, nil
}

// Serve runs the accept loop until the run flag trips or the listening
// socket is closed by Shutdown. Per-connection failures are logged and do
// not stop the loop.
func (a *Acceptor) Serve() error {
	a.log.Info().Str("strategy", a.cfg.Strategy).Int("message_size", a.cfg.MessageSize).Msg("listening")

	for a.run.Running() {
		fd, peer, err := sock.Accept(a.listenFD)
		if err != nil {
			if sock.IsIntr(err) {
				continue
			}
			if a.closed.Load() || !a.run.Running() {
				break
			}
			a.log.Error().Err(err).Msg("accept failed")
			continue
		}

		if err := sock.SetNoDelay(fd); err != nil {
			a.log.Warn().Err(err).Str("peer", peer).Msg("TCP_NODELAY failed")
		}
		a.spawn(fd, peer)
	}

	a.log.Info().Msg("accept loop stopped")
	a.wg.Wait()
	return nil
}

// spawn hands the descriptor to a new sender worker goroutine. Each
// strategy instance is per-connection; senders are not shared.
func (a *Acceptor) spawn(fd int, peer string) {
	strat, err := strategy.New(a.cfg.Strategy)
	if err != nil {
		// Validated in NewAcceptor; unreachable outside of races on cfg.
		a.log.Error().Err(err).Msg("strategy construction failed")
		sock.Close(fd)
		return
	}

	id := a.nextID.Add(1)
	w := worker.NewSender(fd, strat, a.run, worker.Config{MessageSize: a.cfg.MessageSize}, a.log, a.metrics)
	a.workers.Store(id, w)
	if a.metrics != nil {
		a.metrics.Connections.Inc()
	}
	a.log.Info().Str("peer", peer).Uint64("worker", id).Msg("accepted connection")

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.workers.Delete(id)
		if _, err := w.Run(); err != nil {
			a.log.Error().Err(err).Uint64("worker", id).Msg("worker exited with error")
		}
	}()
}

// ActiveWorkers returns the number of live sender workers.
func (a *Acceptor) ActiveWorkers() int { return a.workers.Size() }

// Shutdown stops accepting, unblocks the accept loop by closing the
// listening socket and waits for every worker to finish. Workers observe
// the tripped run flag on their next iteration.
func (a *Acceptor) Shutdown() error {
	a.run.Trip()
	if a.closed.CompareAndSwap(false, true) {
		if err := sock.Close(a.listenFD); err != nil {
			return fmt.Errorf("close listener: %w", err)
		}
	}
	a.wg.Wait()
	return nil
}

var _ api.GracefulShutdown = (*Acceptor)(nil)

// File: client/dialer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Receiving side: N parallel connections, one receiver worker each,
// joined and aggregated after all workers complete.

package client

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/zerosend/api"
	"github.com/momentics/zerosend/control"
	"github.com/momentics/zerosend/internal/sock"
	"github.com/momentics/zerosend/worker"
)

// Dialer opens the configured number of parallel connections and runs a
// receiver worker on each.
type Dialer struct {
	cfg     control.ClientConfig
	run     *control.RunFlag
	log     zerolog.Logger
	metrics *control.Metrics
}

// NewDialer validates the configuration. metrics may be nil.
func NewDialer(cfg control.ClientConfig, run *control.RunFlag, log zerolog.Logger, m *control.Metrics) (*Dialer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Dialer{
		cfg:     cfg,
		run:     run,
		log:     log.With().Str("component", "dialer").Logger(),
		metrics: m,
	}, nil
}

// Run connects, receives for the configured duration on every connection
// and returns the aggregate plus per-worker results (indexed by
// connection). Per-worker results are valid even when an error is
// returned; the first connect or receive failure wins the error slot.
func (d *Dialer) Run() (api.Result, []api.Result, error) {
	n := d.cfg.Connections
	results := make([]api.Result, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fd, err := sock.Connect(d.cfg.Host, d.cfg.Port)
			if err != nil {
				d.log.Error().Err(err).Int("conn", i).Msg("connect failed")
				return err
			}
			if err := sock.SetNoDelay(fd); err != nil {
				d.log.Warn().Err(err).Int("conn", i).Msg("TCP_NODELAY failed")
			}
			if d.metrics != nil {
				d.metrics.Connections.Inc()
			}
			d.log.Info().Int("conn", i).Msgf("connected to %s:%d", d.cfg.Host, d.cfg.Port)

			w := worker.NewReceiver(fd, d.run, worker.Config{MessageSize: d.cfg.MessageSize}, d.cfg.Duration, d.log.With().Int("conn", i).Logger(), d.metrics)
			res, err := w.Run()
			results[i] = res
			return err
		})
	}
	err := g.Wait()

	var agg api.Result
	for i := range results {
		agg.Merge(results[i])
	}
	if err != nil {
		return agg, results, fmt.Errorf("client run: %w", err)
	}
	return agg, results, nil
}

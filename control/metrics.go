// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process-wide transfer counters. Workers feed these as they run; the
// final per-worker accounting still lives in api.Result, owned by each
// worker without synchronization.

package control

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics aggregates live transfer counters across all workers.
type Metrics struct {
	set *metrics.Set

	SentBytes      *metrics.Counter
	SentMessages   *metrics.Counter
	RecvBytes      *metrics.Counter
	RecvMessages   *metrics.Counter
	Completions    *metrics.Counter
	ConfirmedBytes *metrics.Counter
	Connections    *metrics.Counter
}

// NewMetrics creates an isolated metric set with the transfer counters
// registered.
func NewMetrics() *Metrics {
	s := metrics.NewSet()
	return &Metrics{
		set:            s,
		SentBytes:      s.NewCounter("zerosend_sent_bytes_total"),
		SentMessages:   s.NewCounter("zerosend_sent_messages_total"),
		RecvBytes:      s.NewCounter("zerosend_recv_bytes_total"),
		RecvMessages:   s.NewCounter("zerosend_recv_messages_total"),
		Completions:    s.NewCounter("zerosend_zerocopy_completions_total"),
		ConfirmedBytes: s.NewCounter("zerosend_zerocopy_confirmed_bytes_total"),
		Connections:    s.NewCounter("zerosend_connections_total"),
	}
}

// WritePrometheus dumps all counters in Prometheus text format.
func (m *Metrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

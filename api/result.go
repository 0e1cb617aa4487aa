// File: api/result.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-worker transfer results and derived throughput figures.

package api

import "time"

// Result captures one worker's transfer totals. It is written only by the
// owning worker and must be read only after that worker has terminated.
type Result struct {
	Bytes    uint64
	Messages uint64
	Elapsed  time.Duration
}

// ThroughputGbps returns the achieved throughput in gigabits per second.
func (r Result) ThroughputGbps() float64 {
	s := r.Elapsed.Seconds()
	if s <= 0 {
		return 0
	}
	return float64(r.Bytes) * 8 / (s * 1e9)
}

// AvgLatencyMicros returns the average wall-clock microseconds per message.
func (r Result) AvgLatencyMicros() float64 {
	if r.Messages == 0 {
		return 0
	}
	return float64(r.Elapsed.Microseconds()) / float64(r.Messages)
}

// Merge folds other into r: byte and message totals accumulate, elapsed
// keeps the maximum since parallel workers overlap in time.
func (r *Result) Merge(other Result) {
	r.Bytes += other.Bytes
	r.Messages += other.Messages
	if other.Elapsed > r.Elapsed {
		r.Elapsed = other.Elapsed
	}
}

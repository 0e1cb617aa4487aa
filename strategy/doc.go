// File: strategy/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package strategy implements the three transmit variants the benchmark
// contrasts: per-segment copies, one gathered write, and MSG_ZEROCOPY
// with completion tracking.
package strategy

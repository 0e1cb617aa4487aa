// File: payload/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package payload builds the fixed-layout multi-segment messages the
// transfer strategies transmit. A message is SegmentCount independently
// allocated buffers; keeping the segments discontiguous is what gives the
// gathered and zero-copy strategies a scatter-gather list to work on.
package payload

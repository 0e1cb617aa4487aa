// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error taxonomy for the zerosend transfer engine.

package api

import "fmt"

// Sentinel errors shared across strategies, workers and the CLI.
//
// PeerClosed and ConnectionLost are both terminal for a worker but differ
// in how they are reported: a clean close is informational, a broken pipe
// or reset is a diagnostic.
var (
	ErrPeerClosed        = fmt.Errorf("peer closed connection")
	ErrConnectionLost    = fmt.Errorf("connection lost")
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
	ErrDrainTimeout      = fmt.Errorf("completion drain timeout")
	ErrAllocation        = fmt.Errorf("allocation failed")
	ErrNotSupported      = fmt.Errorf("operation not supported")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
)

// File: control/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package control carries the process-level plumbing around the transfer
// engine: the cooperative run flag, validated configuration and live
// transfer counters.
package control

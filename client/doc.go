// File: client/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package client dials the benchmark server with parallel connections
// and aggregates the per-connection receive results.
package client

// File: server/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package server accepts TCP connections and runs one transmitting
// worker per client with the configured transfer strategy.
package server

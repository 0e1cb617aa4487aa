// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components that must stop accepting
// new work and release their resources on demand.
type GracefulShutdown interface {
	// Shutdown stops all internal services and frees held resources.
	Shutdown() error
}

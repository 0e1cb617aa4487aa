// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the shared contracts of the zerosend benchmark:
// the error taxonomy, worker results and the graceful shutdown contract.
package api

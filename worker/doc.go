// File: worker/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package worker runs one goroutine per connection: the server role
// transmits a prepared payload with the configured strategy, the client
// role drains the stream and counts complete messages. Each worker owns
// its descriptor, message and counters exclusively.
package worker

// File: internal/sock/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package sock wraps the raw socket syscalls the benchmark measures.
// Keeping the unix package behind one internal seam gives the rest of the
// engine a portable surface and a single place for errno classification.
package sock

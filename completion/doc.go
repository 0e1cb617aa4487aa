// File: completion/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package completion tracks in-flight MSG_ZEROCOPY sends and drains the
// kernel's completion notifications so segment buffers are never released
// while the network device may still be reading them.
package completion

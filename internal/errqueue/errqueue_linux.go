// File: internal/errqueue/errqueue_linux.go
//go:build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket error-queue access for MSG_ZEROCOPY completion notifications.
//
// After a sendmsg(MSG_ZEROCOPY) the kernel posts a sock_extended_err on
// the socket's error queue once the NIC has finished reading the pinned
// user pages. The notification carries an inclusive [Lo, Hi] range of
// completed send sequence numbers.

package errqueue

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Range is an inclusive span of completed zero-copy send counters.
type Range struct {
	Lo uint32
	Hi uint32
}

// Count returns the number of completed sends the range covers.
func (r Range) Count() uint32 { return r.Hi - r.Lo + 1 }

const sizeofSockExtendedErr = 16 // struct sock_extended_err

// ReadCompletions performs one non-blocking recvmsg on the error queue and
// returns the zero-copy completion ranges it carried. ok is false when the
// queue had nothing pending. Notifications with a non-zero-copy origin are
// ignored.
func ReadCompletions(fd int) ([]Range, bool, error) {
	oob := make([]byte, 128)
	var oobn int
	for {
		var err error
		_, oobn, _, _, err = unix.Recvmsg(fd, nil, oob, unix.MSG_ERRQUEUE|unix.MSG_DONTWAIT)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("recvmsg MSG_ERRQUEUE: %w", err)
		}
		break
	}

	msgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return nil, false, fmt.Errorf("parse errqueue cmsg: %w", err)
	}

	var ranges []Range
	for _, m := range msgs {
		switch {
		case m.Header.Level == unix.SOL_IP && m.Header.Type == unix.IP_RECVERR:
		case m.Header.Level == unix.SOL_IPV6 && m.Header.Type == unix.IPV6_RECVERR:
		default:
			continue
		}
		if len(m.Data) < sizeofSockExtendedErr {
			continue
		}
		serr := (*unix.SockExtendedErr)(unsafe.Pointer(&m.Data[0]))
		if serr.Origin != unix.SO_EE_ORIGIN_ZEROCOPY {
			continue
		}
		// Info carries the lowest, Data the highest completed counter.
		ranges = append(ranges, Range{Lo: serr.Info, Hi: serr.Data})
	}
	return ranges, true, nil
}

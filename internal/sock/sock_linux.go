// File: internal/sock/sock_linux.go
//go:build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux socket layer for the transfer engine. All benchmark I/O goes
// through raw file descriptors so the three strategies map one-to-one
// onto write(2), writev(2) and sendmsg(2) with MSG_ZEROCOPY.

package sock

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Listen binds a TCP listening socket on the given port with SO_REUSEADDR
// set and the given backlog.
func Listen(port, backlog int) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("bind port %d: %w", port, err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listen: %w", err)
	}
	return fd, nil
}

// Accept waits for one connection on the listening descriptor and returns
// the connected descriptor plus the peer address in host:port form.
func Accept(listenFD int) (int, string, error) {
	fd, sa, err := unix.Accept(listenFD)
	if err != nil {
		return -1, "", err
	}
	peer := ""
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		peer = fmt.Sprintf("%s:%d", net.IP(in4.Addr[:]).String(), in4.Port)
	}
	return fd, peer, nil
}

// Connect opens a TCP connection to host:port and returns the descriptor.
func Connect(host string, port int) (int, error) {
	ip := net.ParseIP(host)
	if ip != nil {
		ip = ip.To4()
	}
	if ip == nil {
		addrs, err := net.LookupIP(host)
		if err != nil {
			return -1, fmt.Errorf("resolve %s: %w", host, err)
		}
		for _, a := range addrs {
			if v4 := a.To4(); v4 != nil {
				ip = v4
				break
			}
		}
		if ip == nil {
			return -1, fmt.Errorf("resolve %s: no IPv4 address", host)
		}
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}
	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip)
	if err := unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("connect %s:%d: %w", host, port, err)
	}
	return fd, nil
}

// Pair returns a connected AF_UNIX stream socket pair. Used by tests that
// need a real descriptor without touching the network.
func Pair() (int, int, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, -1, fmt.Errorf("socketpair: %w", err)
	}
	return fds[0], fds[1], nil
}

// SetNoDelay disables send coalescing (Nagle) on the descriptor.
func SetNoDelay(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
		return fmt.Errorf("setsockopt TCP_NODELAY: %w", err)
	}
	return nil
}

// EnableZeroCopy flips SO_ZEROCOPY on the descriptor. Fails on kernels
// older than 4.14 or on socket families without zero-copy support.
func EnableZeroCopy(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ZEROCOPY, 1); err != nil {
		return fmt.Errorf("setsockopt SO_ZEROCOPY: %w", err)
	}
	return nil
}

// Close closes the descriptor.
func Close(fd int) error { return unix.Close(fd) }

// Read performs one blocking read into p.
func Read(fd int, p []byte) (int, error) { return unix.Read(fd, p) }

// Write performs one blocking write of p.
func Write(fd int, p []byte) (int, error) { return unix.Write(fd, p) }

// Writev transmits all buffers with a single gathered write.
func Writev(fd int, bufs [][]byte) (int, error) { return unix.Writev(fd, bufs) }

// SendmsgZeroCopy queues all buffers for zero-copy transmission. The call
// returning does not mean the data has left user memory; a completion must
// be drained from the error queue before the buffers may be reused.
func SendmsgZeroCopy(fd int, bufs [][]byte) (int, error) {
	return unix.SendmsgBuffers(fd, bufs, nil, nil, unix.MSG_ZEROCOPY|unix.MSG_NOSIGNAL)
}

// IsIntr reports whether err is an interrupted-call condition to retry.
func IsIntr(err error) bool { return errors.Is(err, unix.EINTR) }

// IsWouldBlock reports whether err means no data is currently available.
func IsWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// IsNoBufs reports the zero-copy queue-full condition.
func IsNoBufs(err error) bool { return errors.Is(err, unix.ENOBUFS) }

// IsPeerGone reports a broken pipe or connection reset.
func IsPeerGone(err error) bool {
	return errors.Is(err, unix.EPIPE) || errors.Is(err, unix.ECONNRESET)
}

// File: internal/sock/sock_stub.go
//go:build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux stub. The benchmark depends on MSG_ZEROCOPY and the socket
// error queue, which are Linux-only; every entry point reports
// api.ErrNotSupported so the CLI can fail cleanly.

package sock

import "github.com/momentics/zerosend/api"

func Listen(port, backlog int) (int, error)      { return -1, api.ErrNotSupported }
func Accept(listenFD int) (int, string, error)   { return -1, "", api.ErrNotSupported }
func Connect(host string, port int) (int, error) { return -1, api.ErrNotSupported }
func Pair() (int, int, error)                    { return -1, -1, api.ErrNotSupported }
func SetNoDelay(fd int) error                    { return api.ErrNotSupported }
func EnableZeroCopy(fd int) error                { return api.ErrNotSupported }
func Close(fd int) error                         { return api.ErrNotSupported }

func Read(fd int, p []byte) (int, error)              { return 0, api.ErrNotSupported }
func Write(fd int, p []byte) (int, error)             { return 0, api.ErrNotSupported }
func Writev(fd int, bufs [][]byte) (int, error)       { return 0, api.ErrNotSupported }
func SendmsgZeroCopy(fd int, bufs [][]byte) (int, error) { return 0, api.ErrNotSupported }

func IsIntr(err error) bool       { return false }
func IsWouldBlock(err error) bool { return false }
func IsNoBufs(err error) bool     { return false }
func IsPeerGone(err error) bool   { return false }

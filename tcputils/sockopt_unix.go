//go:build unix

package tcputils

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// ReuseAddrControl sets SO_REUSEADDR on the listening socket so a restarted
// server can bind while old connections sit in TIME_WAIT.
func ReuseAddrControl(network, address string, c syscall.RawConn) error {

	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}

	return sockErr
}

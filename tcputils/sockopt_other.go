//go:build !unix

package tcputils

import (
	"syscall"
)

// ReuseAddrControl is a no-op where SO_REUSEADDR is not available.
func ReuseAddrControl(network, address string, c syscall.RawConn) error {

	return nil
}

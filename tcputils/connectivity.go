package tcputils

import (
	"net"
	"time"
)

// SetReadDeadline bounds how long reads on conn may block. A non-positive
// timeout leaves the connection without a deadline.
func SetReadDeadline(conn net.Conn, readTimeout int32) error {

	if readTimeout > 0 {
		return conn.SetReadDeadline(time.Now().Add(time.Millisecond * time.Duration(readTimeout)))
	}

	return nil
}

// SetWriteDeadline bounds how long writes on conn may block.
func SetWriteDeadline(conn net.Conn, writeTimeout int32) error {

	if writeTimeout > 0 {
		return conn.SetWriteDeadline(time.Now().Add(time.Millisecond * time.Duration(writeTimeout)))
	}

	return nil
}

// RemoteAddr returns the peer address of conn for logging.
func RemoteAddr(conn net.Conn) string {

	if conn == nil || conn.RemoteAddr() == nil {
		return "unknown"
	}

	return conn.RemoteAddr().String()
}

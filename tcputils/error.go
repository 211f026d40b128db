package tcputils

import (
	"errors"
	"io"
	"net"
	"syscall"
)

const (
	RESPONSE_TIMED_OUT   = "CLIENT_TIMED_OUT"
	RESPONSE_CLOSED      = "CLIENT_CLOSED"
	RESPONSE_NO_RESPONSE = "CLIENT_NO_RESPONSE"
)

var (
	ErrTimedOut   = errors.New(RESPONSE_TIMED_OUT)
	ErrClosed     = errors.New(RESPONSE_CLOSED)
	ErrNoResponse = errors.New(RESPONSE_NO_RESPONSE)
)

// EvalError classifies an i/o error seen on a client connection.
func EvalError(err error) error {

	if err == nil {
		return ErrNoResponse
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimedOut
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return ErrClosed
	}

	return ErrNoResponse
}

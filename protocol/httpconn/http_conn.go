package httpconn

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/gptankit/minihttpd/errorlog"
	"github.com/gptankit/minihttpd/model"
	"github.com/gptankit/minihttpd/tcputils"
)

// Router maps a parsed request to the response it gets.
type Router interface {
	Route(req model.Request) model.Response
}

// HTTPConnection is a http connection object that holds the underlying
// tcp connection with a reader on it. It serves exactly one request.
type HTTPConnection struct {
	tcpConn net.Conn
	reader  *bufio.Reader
	router  Router
	sp      *model.ServerProperties
}

// New encloses tcpConn. The returned connection is a workerpool.Job.
func New(tcpConn net.Conn, router Router, sp *model.ServerProperties) *HTTPConnection {

	return &HTTPConnection{
		tcpConn: tcpConn,
		reader:  bufio.NewReader(tcpConn),
		router:  router,
		sp:      sp,
	}
}

// Read reads one http request under the configured read deadline.
func (httpConn *HTTPConnection) Read() (model.Request, error) {

	if err := tcputils.SetReadDeadline(httpConn.tcpConn, httpConn.sp.ReadTimeout); err != nil {
		return model.Request{}, err
	}

	return ReadRequest(httpConn.reader)
}

// Write writes res to the connection under the configured write deadline.
func (httpConn *HTTPConnection) Write(res model.Response) error {

	if err := tcputils.SetWriteDeadline(httpConn.tcpConn, httpConn.sp.WriteTimeout); err != nil {
		return err
	}

	return WriteResponse(httpConn.tcpConn, res)
}

// Execute reads the request, routes it, writes the response and closes the
// connection. Malformed requests get 400; i/o failures close the connection
// without a response.
func (httpConn *HTTPConnection) Execute() {

	defer forceCloseConn(httpConn.tcpConn)
	remote := tcputils.RemoteAddr(httpConn.tcpConn)

	var res model.Response
	req, err := httpConn.Read()
	if err == nil {
		res = httpConn.router.Route(req)
	} else {
		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) {
			if errors.Is(err, io.EOF) {
				// connected and closed without sending anything
				errorlog.Logger().WithField("remote", remote).Debug("empty connection")
				return
			}
			errorlog.IncrementErrorCount(httpConn.sp, errorlog.READ_FAIL, remote+": "+tcputils.EvalError(err).Error())
			return
		}
		errorlog.IncrementErrorCount(httpConn.sp, errorlog.BAD_REQUEST, remote+": "+protoErr.Error())
		res = model.EmptyResponse(model.STATUS_BAD_REQUEST)
	}

	if err := httpConn.Write(res); err != nil {
		errorlog.IncrementErrorCount(httpConn.sp, errorlog.WRITE_FAIL, remote+": "+tcputils.EvalError(err).Error())
		return
	}

	errorlog.LogRequest(remote, req.Method, req.Path, res.StatusCode())
}

// Discard closes the connection without serving it.
func (httpConn *HTTPConnection) Discard() {

	forceCloseConn(httpConn.tcpConn)
}

// Reject answers 503 to a connection the pool had no room for.
func (httpConn *HTTPConnection) Reject() {

	defer forceCloseConn(httpConn.tcpConn)

	errorlog.IncrementErrorCount(httpConn.sp, errorlog.POOL_FLOODED, "request discarded")

	// drain the request so closing does not reset the connection
	if _, err := httpConn.Read(); err != nil {
		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) {
			return
		}
	}

	if err := httpConn.Write(model.EmptyResponse(model.STATUS_SERVICE_UNAVAILABLE)); err != nil {
		errorlog.LogConnError(tcputils.RemoteAddr(httpConn.tcpConn), errorlog.WRITE_FAIL, err)
	}
}

// forceCloseConn force closes a net.Conn object.
func forceCloseConn(conn net.Conn) bool {

	conn.Close()
	return true
}

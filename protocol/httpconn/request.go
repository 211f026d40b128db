package httpconn

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gptankit/minihttpd/model"
)

const (
	MaxLineBytes   = 8 << 10
	MaxHeaderLines = 100
	MaxBodyBytes   = 1 << 20

	defaultVersion = "HTTP/1.1"
)

var (
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMalformedHeader      = errors.New("malformed header")
	ErrHeaderTooLarge       = errors.New("header too large")
)

// ProtocolError is a request the client got wrong. It is answered with
// 400; any other read error just drops the connection.
type ProtocolError struct {
	Err  error
	Line string
}

func (e *ProtocolError) Error() string {

	if e.Line == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + strconv.Quote(e.Line)
}

func (e *ProtocolError) Unwrap() error {

	return e.Err
}

// ReadRequest reads the request line and headers up to the first blank
// line, then a Content-Length sized body if one is announced.
func ReadRequest(reader *bufio.Reader) (model.Request, error) {

	var req model.Request

	line, err := readLine(reader)
	if err != nil {
		return req, err
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return req, &ProtocolError{Err: ErrMalformedRequestLine, Line: line}
	}
	req.Method = fields[0]
	req.Path = fields[1]
	req.Version = defaultVersion
	if len(fields) > 2 {
		req.Version = fields[2]
	}

	for {
		line, err = readLine(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return req, err
		}
		if line == "" {
			break
		}
		if req.Headers.Len() >= MaxHeaderLines {
			return req, &ProtocolError{Err: ErrHeaderTooLarge}
		}

		name, value, ok := parseHeaderLine(line)
		if !ok {
			return req, &ProtocolError{Err: ErrMalformedHeader, Line: line}
		}
		req.Headers.Add(name, value)
	}

	if cl, ok := req.Headers.Get("Content-Length"); ok {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 || n > MaxBodyBytes {
			return req, &ProtocolError{Err: ErrMalformedHeader, Line: "Content-Length: " + cl}
		}
		if n > 0 {
			req.Body = make([]byte, n)
			if _, err := io.ReadFull(reader, req.Body); err != nil {
				return req, err
			}
		}
	}

	return req, nil
}

// readLine returns the next line without its CRLF or LF terminator.
func readLine(reader *bufio.Reader) (string, error) {

	var line []byte
	for {
		chunk, err := reader.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > MaxLineBytes {
			return "", &ProtocolError{Err: ErrHeaderTooLarge}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		break
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	return string(line), nil
}

// parseHeaderLine splits "Name: value" on the first colon.
func parseHeaderLine(line string) (string, string, bool) {

	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return "", "", false
	}

	name := strings.TrimSpace(line[:idx])
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", "", false
	}

	return name, strings.TrimSpace(line[idx+1:]), true
}

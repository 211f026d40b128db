package model

import (
	"strconv"
)

const (
	PROTOCOL = "HTTP/1.1"

	STATUS_OK                  = PROTOCOL + " 200 OK"
	STATUS_BAD_REQUEST         = PROTOCOL + " 400 Bad Request"
	STATUS_NOT_FOUND           = PROTOCOL + " 404 Not Found"
	STATUS_SERVICE_UNAVAILABLE = PROTOCOL + " 503 Service Unavailable"
)

// Response is a hand-built http response, written exactly once.
type Response struct {
	Status  string
	Headers Header
	Body    []byte
}

// StatusCode returns the numeric code of the status line, or 0 if the
// line is malformed.
func (res Response) StatusCode() int {

	if len(res.Status) < len(PROTOCOL)+4 {
		return 0
	}
	code, err := strconv.Atoi(res.Status[len(PROTOCOL)+1 : len(PROTOCOL)+4])
	if err != nil {
		return 0
	}

	return code
}

// EmptyResponse returns a response carrying only a status line.
func EmptyResponse(status string) Response {

	return Response{Status: status}
}

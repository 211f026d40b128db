package model

// Request is one parsed http request. It is built once by the reader and
// never modified afterwards.
type Request struct {
	Method  string
	Path    string
	Version string
	Headers Header
	Body    []byte
}

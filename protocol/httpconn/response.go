package httpconn

import (
	"bytes"
	"io"

	"github.com/gptankit/minihttpd/model"
)

// Serialize frames res as status line, header lines, blank line and body.
func Serialize(res model.Response) []byte {

	size := len(res.Status) + 4 + len(res.Body)
	for _, h := range res.Headers {
		size += len(h.Name) + len(h.Value) + 4
	}

	var buf bytes.Buffer
	buf.Grow(size)

	buf.WriteString(res.Status)
	buf.WriteString("\r\n")
	for _, h := range res.Headers {
		buf.WriteString(h.Name)
		buf.WriteString(": ")
		buf.WriteString(h.Value)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	buf.Write(res.Body)

	return buf.Bytes()
}

// WriteResponse writes res to w in a single Write call.
func WriteResponse(w io.Writer, res model.Response) error {

	_, err := w.Write(Serialize(res))
	return err
}

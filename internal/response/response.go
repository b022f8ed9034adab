// Package response serializes responses in the server's fixed wire framing:
//
//	<status-line>\n
//	Content-Type: <type>\n
//	Content-Length: <len>\r\n\r\n
//	<body>\r\n\r\n
//
// This is not standard HTTP/1.1 framing. It is kept byte-for-byte for
// compatibility with existing clients of the server.
package response

import (
	"bytes"
	"strconv"

	"github.com/ColeHoward/fileserve/internal/types"
)

const trailer = "\r\n\r\n"

// Response is assembled fresh per request and serialized once.
type Response struct {
	Status string
	Type   types.ContentType
	Body   []byte
}

// OK builds a 200 response for fetched file contents.
func OK(fc types.FileContents) Response {
	return Response{Status: types.StatusOK, Type: fc.Type, Body: fc.Data}
}

// NotFound builds a 404 response with an HTML body.
func NotFound(body []byte) Response {
	return Response{Status: types.StatusNotFound, Type: types.HTML, Body: body}
}

// Bytes returns the wire form of r.
func (r Response) Bytes() []byte {
	return Build(r.Status, r.Type, r.Body)
}

// Build frames status, content type and body into a wire-ready byte slice.
func Build(status string, ct types.ContentType, body []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(status) + len(body) + 64)

	buf.WriteString(status)
	buf.WriteByte('\n')
	buf.WriteString("Content-Type: ")
	buf.WriteString(ct.MIME())
	buf.WriteByte('\n')
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString(trailer)
	buf.Write(body)
	buf.WriteString(trailer)

	return buf.Bytes()
}

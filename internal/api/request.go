package api

import (
	"bufio"
	"io"
	"strings"

	serveerrors "github.com/ColeHoward/fileserve/internal/errors"
	"github.com/ColeHoward/fileserve/internal/types"
)

// ReadRequest reads lines until a blank line or the end of the stream and
// extracts the request path from the first one. Method and version tokens are
// not validated. A read error ends the head like EOF does.
func ReadRequest(r io.Reader) (types.Request, error) {
	br := bufio.NewReader(r)

	var head []string
	for {
		line, err := br.ReadString('\n')
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}
		head = append(head, line)
		if err != nil {
			break
		}
	}

	if len(head) == 0 {
		return types.Request{}, serveerrors.ErrEmptyRequest
	}

	fields := strings.Fields(head[0])
	if len(fields) < 2 {
		return types.Request{Head: head}, serveerrors.New(serveerrors.MalformedRequest, "request line has no path", head[0], nil)
	}

	return types.Request{Head: head, Path: fields[1]}, nil
}

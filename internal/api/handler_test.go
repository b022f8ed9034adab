package api

import (
	"bytes"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	serveerrors "github.com/ColeHoward/fileserve/internal/errors"
	"github.com/ColeHoward/fileserve/internal/logging"
)

// fakeConn feeds a fixed request and records what the handler writes
type fakeConn struct {
	net.Conn
	r        io.Reader
	w        bytes.Buffer
	writeErr error
	closed   bool
}

func newFakeConn(request string) *fakeConn {
	return &fakeConn{r: strings.NewReader(request)}
}

func (c *fakeConn) Read(p []byte) (int, error) { return c.r.Read(p) }

func (c *fakeConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return c.w.Write(p)
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func setupRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func wire(status, mime, body string) string {
	return status + "\nContent-Type: " + mime + "\nContent-Length: " +
		strconv.Itoa(len(body)) + "\r\n\r\n" + body + "\r\n\r\n"
}

func TestHandlerServesFiles(t *testing.T) {
	root := setupRoot(t, map[string]string{
		"index.html":     "<p>hi</p>",
		"notfound.html":  "<p>missing</p>",
		"css/site.css":   "body{}",
		"docs/guide.pdf": "%PDF-1.7",
		"img/cat.jpg":    "\xff\xd8\xff",
		"notes.txt":      "plain",
	})
	h := NewHandler("notfound.html", logging.NewDiscardLogger())

	tests := []struct {
		name    string
		request string
		want    string
	}{
		{
			name:    "html",
			request: "GET /index.html HTTP/1.1\r\nHost: localhost\r\n\r\n",
			want:    wire("HTTP/1.1 200 OK", "text/html", "<p>hi</p>"),
		},
		{
			name:    "css in subfolder",
			request: "GET /css/site.css HTTP/1.1\r\n\r\n",
			want:    wire("HTTP/1.1 200 OK", "text/css", "body{}"),
		},
		{
			name:    "pdf",
			request: "GET /docs/guide.pdf HTTP/1.1\r\n\r\n",
			want:    wire("HTTP/1.1 200 OK", "application/pdf", "%PDF-1.7"),
		},
		{
			name:    "jpg",
			request: "GET /img/cat.jpg HTTP/1.1\r\n\r\n",
			want:    wire("HTTP/1.1 200 OK", "image/jpeg", "\xff\xd8\xff"),
		},
		{
			name:    "missing file",
			request: "GET /missing.html HTTP/1.1\r\n\r\n",
			want:    wire("HTTP/1.1 404 Not Found", "text/html", "<p>missing</p>"),
		},
		{
			name:    "unsupported extension on existing file",
			request: "GET /notes.txt HTTP/1.1\r\n\r\n",
			want:    wire("HTTP/1.1 404 Not Found", "text/html", "<p>missing</p>"),
		},
		{
			name:    "root path",
			request: "GET / HTTP/1.1\r\n\r\n",
			want:    wire("HTTP/1.1 404 Not Found", "text/html", "<p>missing</p>"),
		},
		{
			name:    "directory without extension",
			request: "GET /css HTTP/1.1\r\n\r\n",
			want:    wire("HTTP/1.1 404 Not Found", "text/html", "<p>missing</p>"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn(tt.request)
			h.Handle(conn, root)

			if got := conn.w.String(); got != tt.want {
				t.Errorf("response =\n%q\nwant\n%q", got, tt.want)
			}
			if !conn.closed {
				t.Error("connection was not closed")
			}
		})
	}
}

func TestHandlerNoResponseForEmptyOrMalformed(t *testing.T) {
	root := setupRoot(t, map[string]string{"notfound.html": "nf"})
	h := NewHandler("notfound.html", logging.NewDiscardLogger())

	for name, request := range map[string]string{
		"empty":        "",
		"blank line":   "\r\n",
		"single token": "GET\r\n\r\n",
	} {
		t.Run(name, func(t *testing.T) {
			conn := newFakeConn(request)
			h.Handle(conn, root)

			if conn.w.Len() != 0 {
				t.Errorf("expected no response bytes, got %q", conn.w.String())
			}
			if !conn.closed {
				t.Error("connection was not closed")
			}
		})
	}
}

func TestHandlerBuiltInNotFoundPage(t *testing.T) {
	root := setupRoot(t, map[string]string{"index.html": "ok"})
	h := NewHandler("notfound.html", logging.NewDiscardLogger())

	conn := newFakeConn("GET /gone.html HTTP/1.1\r\n\r\n")
	h.Handle(conn, root)

	want := wire("HTTP/1.1 404 Not Found", "text/html", string(FallbackNotFoundBody))
	if got := conn.w.String(); got != want {
		t.Errorf("response =\n%q\nwant\n%q", got, want)
	}
}

func TestHandlerWriteFailure(t *testing.T) {
	root := setupRoot(t, map[string]string{"index.html": "ok", "notfound.html": "nf"})
	h := NewHandler("notfound.html", logging.NewDiscardLogger())

	conn := newFakeConn("GET /index.html HTTP/1.1\r\n\r\n")
	conn.writeErr = errors.New("broken pipe")

	err := h.serve(conn, root)
	if serveerrors.CodeOf(err) != serveerrors.WriteFailure {
		t.Fatalf("serve error = %v, want WriteFailure", err)
	}

	// Handle swallows the failure and still closes
	conn = newFakeConn("GET /index.html HTTP/1.1\r\n\r\n")
	conn.writeErr = errors.New("broken pipe")
	h.Handle(conn, root)
	if !conn.closed {
		t.Error("connection was not closed after write failure")
	}
}

func TestHandlerPassesParentSegmentsThrough(t *testing.T) {
	outer := setupRoot(t, map[string]string{
		"secret.html":       "outside",
		"www/notfound.html": "nf",
	})
	h := NewHandler("notfound.html", logging.NewDiscardLogger())

	conn := newFakeConn("GET /../secret.html HTTP/1.1\r\n\r\n")
	h.Handle(conn, filepath.Join(outer, "www"))

	want := wire("HTTP/1.1 200 OK", "text/html", "outside")
	if got := conn.w.String(); got != want {
		t.Errorf("response =\n%q\nwant\n%q", got, want)
	}
}

func TestHandlerOverPipe(t *testing.T) {
	root := setupRoot(t, map[string]string{"index.html": "<p>hi</p>", "notfound.html": "<p>missing</p>"})
	h := NewHandler("notfound.html", logging.NewDiscardLogger())

	client, server := net.Pipe()
	go h.Handle(server, root)

	client.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := client.Write([]byte("GET /index.html HTTP/1.1\r\nHost: localhost\r\n\r\n")); err != nil {
		t.Fatalf("write request: %v", err)
	}
	got, err := io.ReadAll(client)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	want := wire("HTTP/1.1 200 OK", "text/html", "<p>hi</p>")
	if string(got) != want {
		t.Errorf("response =\n%q\nwant\n%q", got, want)
	}
}

func TestWithLoggerCopies(t *testing.T) {
	var buf bytes.Buffer
	base := NewHandler("notfound.html", logging.NewDiscardLogger())
	h := base.WithLogger(logging.NewLogger(&buf, 0, logging.HumanFormat))

	root := setupRoot(t, map[string]string{"index.html": "x"})
	h.Handle(newFakeConn("GET /index.html HTTP/1.1\r\n\r\n"), root)

	if !strings.Contains(buf.String(), "serving file") {
		t.Errorf("expected log line from copied handler, got %q", buf.String())
	}
	if base.logger == h.logger {
		t.Error("WithLogger modified the base handler")
	}
}

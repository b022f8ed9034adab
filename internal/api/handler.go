package api

import (
	"io"
	"log/slog"
	"net"

	serveerrors "github.com/ColeHoward/fileserve/internal/errors"
	"github.com/ColeHoward/fileserve/internal/fetch"
	"github.com/ColeHoward/fileserve/internal/response"
	"github.com/ColeHoward/fileserve/internal/types"
)

var _ types.Handler = (*Handler)(nil)

// FallbackNotFoundBody is sent with a 404 when the configured not-found page cannot be read.
var FallbackNotFoundBody = []byte("<!DOCTYPE html><html><head><title>404 Not Found</title></head><body><h1>404 Not Found</h1></body></html>")

// Handler serves one file per connection.
//
// The request path is appended to the root folder verbatim. Nothing stops ".."
// segments from leaving the root.
type Handler struct {
	notFoundPage string
	logger       *slog.Logger
}

// NewHandler creates a Handler that answers misses with root/notFoundPage.
func NewHandler(notFoundPage string, logger *slog.Logger) *Handler {
	return &Handler{notFoundPage: notFoundPage, logger: logger}
}

// WithLogger returns a copy of h that logs to logger.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h2 := *h
	h2.logger = logger
	return &h2
}

// Handle serves conn and closes it. Failures are logged, never returned:
// an empty or malformed request, or a failed write, just ends the connection.
func (h *Handler) Handle(conn net.Conn, root string) {
	defer conn.Close()

	err := h.serve(conn, root)
	switch serveerrors.CodeOf(err) {
	case "":
	case serveerrors.EmptyRequest:
		h.logger.Debug("connection closed without a request")
	default:
		h.logger.Warn("connection dropped", "error", err)
	}
}

func (h *Handler) serve(rw io.ReadWriter, root string) error {
	req, err := ReadRequest(rw)
	if err != nil {
		return err
	}

	resp := h.respond(root, req.Path)
	if _, err := rw.Write(resp.Bytes()); err != nil {
		return serveerrors.New(serveerrors.WriteFailure, "failed to write response", req.Path, err)
	}
	return nil
}

func (h *Handler) respond(root, path string) response.Response {
	fc, err := fetch.Fetch(root + path)
	if err == nil {
		h.logger.Info("serving file", "path", path, "type", fc.Type.MIME(), "bytes", len(fc.Data))
		return response.OK(fc)
	}

	h.logger.Info("serving not-found page", "path", path, "reason", serveerrors.CodeOf(err))
	return response.NotFound(h.notFoundBody(root))
}

func (h *Handler) notFoundBody(root string) []byte {
	fc, err := fetch.Fetch(root + "/" + h.notFoundPage)
	if err != nil {
		h.logger.Warn("using built-in not-found page",
			"error", serveerrors.New(serveerrors.MissingNotFoundPage, "not-found page unreadable", h.notFoundPage, err))
		return FallbackNotFoundBody
	}
	return fc.Data
}

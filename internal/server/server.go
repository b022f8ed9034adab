package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ColeHoward/fileserve/internal/api"
	"github.com/ColeHoward/fileserve/internal/config"
	"github.com/ColeHoward/fileserve/internal/pool"
	"github.com/ColeHoward/fileserve/internal/socket"
)

const maxAcceptBackoff = time.Second

// Server accepts connections and hands each one to the worker pool.
type Server struct {
	root    string
	addr    string
	listen  socket.Options
	handler *api.Handler
	pool    *pool.Pool
	logger  *slog.Logger
}

// New creates a Server and starts its workers. cfg must already be validated.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{
		root:    cfg.Root,
		addr:    cfg.Addr,
		listen:  socket.Options{Backlog: cfg.Backlog, ReusePort: cfg.ReusePort},
		handler: api.NewHandler(cfg.NotFoundPage, logger),
		pool:    pool.New(cfg.Workers, logger),
		logger:  logger,
	}
}

// ListenAndServe binds the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := socket.Listen(ctx, s.addr, s.listen)
	if err != nil {
		return err
	}
	s.logger.Info("listening", "addr", ln.Addr().String(), "root", s.root, "workers", s.pool.Size())
	return s.Serve(ctx, ln)
}

// Serve accepts from ln until ctx is done, then closes ln and returns nil.
// If ln is closed by someone else the loop ends with that error.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("context cancelled, shutting down server")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept error: %w", err)
			}

			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff = min(2*backoff, maxAcceptBackoff)
			}
			s.logger.Warn("accept error", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		s.dispatch(conn)
	}
}

// dispatch queues one handler invocation for conn. The job owns conn from here on.
func (s *Server) dispatch(conn net.Conn) {
	logger := s.logger.With("conn", uuid.New().String(), "remote", conn.RemoteAddr().String())
	h := s.handler.WithLogger(logger)
	root := s.root

	if err := s.pool.Execute(func() { h.Handle(conn, root) }); err != nil {
		logger.Warn("dropping connection", "error", err)
		conn.Close()
	}
}

// Shutdown stops the pool, letting queued connections finish until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.pool.Shutdown(ctx)
}

// Run serves until ctx is done, then waits up to cfg.ShutdownGrace for the workers.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	s := New(cfg, logger)
	err := s.ListenAndServe(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if serr := s.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("workers still busy at exit", "error", serr)
	}
	return err
}

// StartServer runs the server until SIGINT or SIGTERM.
func StartServer(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, cfg, logger); err != nil {
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}

// Package socket opens the listening socket the server accepts connections from.
package socket

import (
	"context"
	"fmt"
	"net"
)

// DefaultBacklog is the accept queue length used when Options.Backlog is zero.
const DefaultBacklog = 512

// Options tune the listening socket.
type Options struct {
	// Backlog is the kernel accept queue length passed to listen(2).
	Backlog int
	// ReusePort sets SO_REUSEPORT so several processes can bind the same address.
	ReusePort bool
}

// Listen binds a TCP listener to addr (host:port).
func Listen(ctx context.Context, addr string, opts Options) (net.Listener, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("listen error: %w", err)
	}
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen error: %w", err)
	}
	if opts.Backlog <= 0 {
		opts.Backlog = DefaultBacklog
	}
	return listen(ctx, tcpAddr, opts)
}

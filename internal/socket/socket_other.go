//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// the backlog is left to the runtime on these platforms
func listen(ctx context.Context, addr *net.TCPAddr, opts Options) (net.Listener, error) {
	if opts.ReusePort {
		return nil, errors.New("listen error: SO_REUSEPORT is not supported on this platform")
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr.String())
	if err != nil {
		return nil, fmt.Errorf("listen error: %w", err)
	}
	return ln, nil
}

//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package server

import (
	"context"
	"net"
)

const reusePortSupported = false

func listenTCPReusePort(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

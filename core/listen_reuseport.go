//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package core

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/searchktools/fast-dispatch/config"
)

// listenControl sets SO_REUSEADDR and SO_REUSEPORT on the listening socket
// when ReusePort is enabled, so several processes can share one port.
func listenControl(cfg *config.Config) func(network, address string, c syscall.RawConn) error {
	if !cfg.ReusePort {
		return nil
	}

	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			if sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); sockErr != nil {
				return
			}
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}

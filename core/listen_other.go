//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package core

import (
	"syscall"

	"github.com/searchktools/fast-dispatch/config"
)

// ReusePort is ignored on this platform
func listenControl(cfg *config.Config) func(network, address string, c syscall.RawConn) error {
	return nil
}

//go:build !windows

package core

import (
	"errors"
	"syscall"
)

// isUnreachable reports an ICMP port unreachable surfaced as a refused connection.
func isUnreachable(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

func isOversized(err error) bool {
	return errors.Is(err, syscall.EMSGSIZE)
}

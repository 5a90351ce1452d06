package core

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isUnreachable reports the WSAECONNRESET Windows raises on the next read when an earlier datagram
// drew an ICMP port unreachable.
func isUnreachable(err error) bool {
	return errors.Is(err, windows.WSAECONNRESET)
}

func isOversized(err error) bool {
	return errors.Is(err, windows.WSAEMSGSIZE)
}

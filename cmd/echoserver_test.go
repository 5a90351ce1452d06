package cmd

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// startEchoServer runs a loopback UDP echo service until the test ends and returns its port. A silent
// server reads datagrams without answering.
func startEchoServer(t *testing.T, silent bool) string {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buffer := make([]byte, 4096)
		for {
			length, addr, err := conn.ReadFromUDP(buffer)
			if err != nil {
				return
			}
			if !silent {
				conn.WriteToUDP(buffer[:length], addr)
			}
		}
	}()

	return strconv.Itoa(conn.LocalAddr().(*net.UDPAddr).Port)
}

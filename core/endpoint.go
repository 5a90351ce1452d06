package core

import (
	"fmt"
	"net"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// Endpoint is a bound local UDP socket used to exchange echo datagrams. It is owned by a single
// session or scanner worker.
type Endpoint struct {
	conn    *net.UDPConn
	network string
	local   *net.UDPAddr
	ttl     int
	timeout time.Duration
}

// newEndpoint binds a new endpoint to local, which may carry a nil IP and a zero port.
func newEndpoint(network string, local *net.UDPAddr, ttl int, timeout time.Duration) (*Endpoint, error) {
	conn, err := net.ListenUDP(network, local)
	if err != nil {
		return nil, &BindError{Addr: local.String(), Err: err}
	}

	if ttl > 0 {
		if err := setTTL(conn, network, ttl); err != nil {
			conn.Close()
			return nil, &BindError{Addr: local.String(), Err: err}
		}
	}

	return &Endpoint{
		conn:    conn,
		network: network,
		local:   local,
		ttl:     ttl,
		timeout: timeout,
	}, nil
}

// setTTL sets the unicast time to live (hop limit on IPv6) of outgoing datagrams.
func setTTL(conn *net.UDPConn, network string, ttl int) error {
	if network == udp4Network {
		if err := ipv4.NewConn(conn).SetTTL(ttl); err != nil {
			return fmt.Errorf("could not set TTL in connection: %w", err)
		}
		return nil
	}

	if err := ipv6.NewConn(conn).SetHopLimit(ttl); err != nil {
		return fmt.Errorf("could not set hop limit in connection: %w", err)
	}
	return nil
}

// rebind returns a new endpoint with the same configuration and closes e. The new socket is bound
// before the old one is released so the system cannot hand out the same ephemeral port again.
func (e *Endpoint) rebind() (*Endpoint, error) {
	next, err := newEndpoint(e.network, e.local, e.ttl, e.timeout)
	if err != nil {
		return nil, err
	}
	e.Close()
	return next, nil
}

// LocalAddr returns the address the endpoint is bound to.
func (e *Endpoint) LocalAddr() *net.UDPAddr {
	return e.conn.LocalAddr().(*net.UDPAddr)
}

// Port returns the local port the endpoint is bound to.
func (e *Endpoint) Port() int {
	return e.LocalAddr().Port
}

// Close releases the socket.
func (e *Endpoint) Close() error {
	return e.conn.Close()
}

// needsRebind reports whether the endpoint must be replaced after rt. A lost round may still get
// its reply later, which would then be read as the reply of the next round. A fixed source port
// cannot be rebound, so it is kept.
func needsRebind(rt *RoundTrip, sourcePort int) bool {
	return rt.Lost() && sourcePort == 0
}

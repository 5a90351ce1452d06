package core

import (
	"bytes"
	"errors"
	"net"
	"time"
)

// receiveFault classifies a failed read on an endpoint.
type receiveFault int

const (
	// fatalFault ends the session with a TransportError
	fatalFault receiveFault = iota
	// unreachableFault is an ICMP error for an earlier datagram reported on this read
	unreachableFault
	// oversizedFault is a datagram that did not fit the receive buffer
	oversizedFault
)

// classifyReceive tells apart the read errors that only mean the round is lost from real I/O
// failures. Timeouts are handled before it is called.
func classifyReceive(err error) receiveFault {
	switch {
	case isUnreachable(err):
		return unreachableFault
	case isOversized(err):
		return oversizedFault
	}
	return fatalFault
}

// probe sends a payload of size bytes to target and waits for its echo for the endpoint timeout.
// Timeouts, unreachable reports and foreign or corrupted replies are reported as lost round trips,
// not errors. Only send failures and other I/O failures return a TransportError.
func (e *Endpoint) probe(target *net.UDPAddr, size int) (*RoundTrip, error) {
	payload := buildPayload(size)

	// one spare byte so longer replies are not truncated into a match
	buffer := make([]byte, size+1)

	start := time.Now()
	if _, err := e.conn.WriteToUDP(payload, target); err != nil {
		return nil, &TransportError{Addr: target, Err: err}
	}

	if err := e.conn.SetReadDeadline(time.Now().Add(e.timeout)); err != nil {
		return nil, &TransportError{Addr: target, Err: err}
	}

	for {
		length, src, err := e.conn.ReadFromUDP(buffer)
		end := time.Now()
		if err != nil {
			var neterr net.Error
			if errors.As(err, &neterr) && neterr.Timeout() {
				return buildTimedOutRT(e.timeout), nil
			}

			switch classifyReceive(err) {
			case unreachableFault:
				// wait out the deadline, the round is lost unless a reply still arrives
				continue
			case oversizedFault:
				return &RoundTrip{Len: len(buffer), Src: src, Time: end.Sub(start), Res: Mismatched}, nil
			}
			return nil, &TransportError{Addr: target, Err: err}
		}

		rt := &RoundTrip{
			Len:  length,
			Src:  src,
			Time: end.Sub(start),
			Res:  Replied,
		}

		if length != size || !bytes.Equal(buffer[:length], payload) {
			rt.Res = Mismatched
			return rt, nil
		}

		// replied rounds must stay strictly positive
		if rt.Time <= 0 {
			rt.Time = time.Nanosecond
		}

		return rt, nil
	}
}

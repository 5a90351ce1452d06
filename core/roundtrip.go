package core

import (
	"net"
	"time"
)

// LossSentinel is the result recorded for a round without a valid matching reply.
const LossSentinel = -1.0

// RoundTripResult is the end result of a round trip
type RoundTripResult int

const (
	// Replied is the result of when an echo request is successfully replied
	Replied RoundTripResult = iota
	// TimedOut is the result of when an echo request does not receive a reply in an expected time
	TimedOut
	// Mismatched is the result of when the received datagram is not the payload we sent
	Mismatched
)

func (r RoundTripResult) String() string {
	switch r {
	case Replied:
		return "replied"
	case TimedOut:
		return "timed out"
	case Mismatched:
		return "mismatched"
	}
	return "unknown"
}

// RoundTrip contains the outcome of one probe.
type RoundTrip struct {
	Seq  int             // round index, starting at 0
	Len  int             // len of reply
	Src  net.Addr        // src of reply
	Time time.Duration   // rtt, successful-only
	Res  RoundTripResult // result
}

// Lost returns whether the round produced no valid reply.
func (rt *RoundTrip) Lost() bool {
	return rt.Res != Replied
}

// Millis returns the round trip time in milliseconds, or LossSentinel if the round was lost.
func (rt *RoundTrip) Millis() float64 {
	if rt.Lost() {
		return LossSentinel
	}
	return float64(rt.Time) / float64(time.Millisecond)
}

// buildTimedOutRT builds a round trip object containing data relevant to a timed out request.
func buildTimedOutRT(timeout time.Duration) *RoundTrip {
	return &RoundTrip{
		Len:  0,
		Src:  nil,
		Time: timeout,
		Res:  TimedOut,
	}
}

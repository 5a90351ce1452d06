package core

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestRTBuildTimedOut tests whether the TimedOut RT is properly built
func TestRTBuildTimedOut(t *testing.T) {
	rt := buildTimedOutRT(2 * time.Second)

	assert.Equal(t, TimedOut, rt.Res)
	assert.Equal(t, 2*time.Second, rt.Time)
	assert.Equal(t, 0, rt.Len)
	assert.Nil(t, rt.Src)
	assert.True(t, rt.Lost())
	assert.Equal(t, LossSentinel, rt.Millis())
}

func TestRTMillis(t *testing.T) {
	rt := buildRoundTrip(Replied)
	rt.Time = 1500 * time.Microsecond
	assert.False(t, rt.Lost())
	assert.InDelta(t, 1.5, rt.Millis(), 1e-9)
}

func TestRTMismatchedIsLoss(t *testing.T) {
	rt := buildRoundTrip(Mismatched)
	assert.True(t, rt.Lost())
	assert.Equal(t, LossSentinel, rt.Millis())
}

func TestRTResultString(t *testing.T) {
	assert.Equal(t, "replied", Replied.String())
	assert.Equal(t, "timed out", TimedOut.String())
	assert.Equal(t, "mismatched", Mismatched.String())
	assert.Equal(t, "unknown", RoundTripResult(42).String())
}

// buildRoundTrip returns a stub round trip with the desired result
func buildRoundTrip(res RoundTripResult) *RoundTrip {
	return &RoundTrip{
		Seq:  0,
		Len:  32,
		Src:  &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: EchoPort},
		Time: time.Millisecond,
		Res:  res,
	}
}

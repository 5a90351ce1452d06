package core

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEndpoint(t *testing.T, timeout time.Duration) *Endpoint {
	t.Helper()
	ep, err := newEndpoint("udp4", &net.UDPAddr{}, 0, timeout)
	require.NoError(t, err)
	t.Cleanup(func() { ep.Close() })
	return ep
}

func TestProbeReplied(t *testing.T) {
	srv := startEchoServer(t, echoVerbatim, 0)
	ep := newTestEndpoint(t, time.Second)

	rt, err := ep.probe(srv.Addr(), 32)
	require.NoError(t, err)

	assert.Equal(t, Replied, rt.Res)
	assert.Equal(t, 32, rt.Len)
	assert.Greater(t, rt.Time, time.Duration(0))
	assert.Greater(t, rt.Millis(), 0.0)
	assert.Equal(t, srv.Addr().String(), rt.Src.String())

	received := srv.Received()
	require.Len(t, received, 1)
	assert.Len(t, received[0], 32)
}

func TestProbeMeasuresDelay(t *testing.T) {
	srv := startEchoServer(t, echoVerbatim, 20*time.Millisecond)
	ep := newTestEndpoint(t, time.Second)

	rt, err := ep.probe(srv.Addr(), 16)
	require.NoError(t, err)

	assert.Equal(t, Replied, rt.Res)
	assert.GreaterOrEqual(t, rt.Millis(), 20.0)
}

func TestProbeMismatched(t *testing.T) {
	srv := startEchoServer(t, echoMangled, 0)
	ep := newTestEndpoint(t, time.Second)

	rt, err := ep.probe(srv.Addr(), 32)
	require.NoError(t, err)

	assert.Equal(t, Mismatched, rt.Res)
	assert.Equal(t, LossSentinel, rt.Millis())
}

func TestProbeTimedOut(t *testing.T) {
	srv := startEchoServer(t, echoSilent, 0)
	ep := newTestEndpoint(t, 50*time.Millisecond)

	start := time.Now()
	rt, err := ep.probe(srv.Addr(), 32)
	require.NoError(t, err)

	assert.Equal(t, TimedOut, rt.Res)
	assert.Equal(t, LossSentinel, rt.Millis())
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestProbeStaleReplyIsMismatch(t *testing.T) {
	srv := startEchoServer(t, echoVerbatim, 0)
	ep := newTestEndpoint(t, time.Second)

	// a datagram of the right size queued before the round starts must not count as its reply
	stale := make([]byte, 32)
	copy(stale, "stale reply from a previous round")
	_, err := srv.conn.WriteToUDP(stale, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: ep.Port()})
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	rt, err := ep.probe(srv.Addr(), 32)
	require.NoError(t, err)
	assert.Equal(t, Mismatched, rt.Res)
}

func TestProbeShortReplyIsMismatch(t *testing.T) {
	srv := startEchoServer(t, echoVerbatim, 0)
	ep := newTestEndpoint(t, time.Second)

	_, err := srv.conn.WriteToUDP([]byte("short"), &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: ep.Port()})
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	rt, err := ep.probe(srv.Addr(), 32)
	require.NoError(t, err)
	assert.Equal(t, Mismatched, rt.Res)
	assert.Equal(t, 5, rt.Len)
}

func TestProbeSendFailureIsTransportError(t *testing.T) {
	srv := startEchoServer(t, echoVerbatim, 0)
	ep := newTestEndpoint(t, time.Second)
	ep.Close()

	rt, err := ep.probe(srv.Addr(), 32)
	assert.Nil(t, rt)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, srv.Addr(), transportErr.Addr)
}

func TestProbeSequentialRoundsAllReplied(t *testing.T) {
	srv := startEchoServer(t, echoVerbatim, 0)
	ep := newTestEndpoint(t, time.Second)

	for i := 0; i < 10; i++ {
		rt, err := ep.probe(srv.Addr(), 64)
		require.NoError(t, err)
		assert.Equal(t, Replied, rt.Res)
	}

	received := srv.Received()
	require.Len(t, received, 10)
	for i := 1; i < len(received); i++ {
		assert.NotEqual(t, received[i-1], received[i])
	}
}

func TestEndpointLongerReplyIsMismatch(t *testing.T) {
	srv := startEchoServer(t, echoVerbatim, 0)
	ep := newTestEndpoint(t, time.Second)

	// a reply longer than the payload must not be cut down to its size
	_, err := srv.conn.WriteToUDP(make([]byte, 64), &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: ep.Port()})
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	rt, err := ep.probe(srv.Addr(), 32)
	require.NoError(t, err)
	assert.Equal(t, Mismatched, rt.Res)
	assert.Equal(t, 33, rt.Len)
}

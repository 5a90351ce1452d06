package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPayloadExactSize(t *testing.T) {
	for _, size := range []int{1, 7, 32, 41, 42, 100, MaxPacketSize} {
		assert.Len(t, buildPayload(size), size)
	}
}

func TestBuildPayloadUniquePerCall(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		payload := string(buildPayload(8))
		assert.False(t, seen[payload], "payload %q repeated", payload)
		seen[payload] = true
	}
}

func TestBuildPayloadSingleByteChangesEveryCall(t *testing.T) {
	previous := buildPayload(1)
	for i := 0; i < 1000; i++ {
		payload := buildPayload(1)
		assert.NotEqual(t, previous, payload, "call %d repeated the previous payload", i)
		previous = payload
	}
}

func TestBuildPayloadRepeatsSeed(t *testing.T) {
	// the seed is a counter byte, a 4 byte stamp and a 36 character UUID
	payload := buildPayload(100)
	assert.Equal(t, payload[:41], payload[41:82])
	assert.Equal(t, payload[:18], payload[82:])
}

package core

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

// payloadRounds counts built payloads, its low byte leads every payload.
var payloadRounds atomic.Uint32

// buildPayload returns size bytes unique to this call. The first byte is a per-process round
// counter, so two consecutive payloads differ even at size 1. It is followed by a stamp taken from
// a version 1 UUID: between two calls either its 100ns clock reading advances or its clock sequence
// is bumped, so their sum changes on every call. The UUID text fills the rest.
func buildPayload(size int) []byte {
	id, err := uuid.NewUUID()
	if err != nil {
		// no usable node id on this host
		id = uuid.New()
	}

	seed := make([]byte, 5, 5+36)
	seed[0] = byte(payloadRounds.Add(1))
	timeLow := binary.BigEndian.Uint32(id[0:4])
	binary.LittleEndian.PutUint32(seed[1:5], timeLow+uint32(id.ClockSequence()))
	seed = append(seed, id.String()...)

	payload := make([]byte, size)
	for n := 0; n < size; {
		n += copy(payload[n:], seed)
	}
	return payload
}

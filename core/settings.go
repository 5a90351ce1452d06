package core

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// MaxPacketSize is the largest payload ever put on the wire, larger requested sizes are clamped.
	MaxPacketSize = 1024

	// EchoPort is the well-known port of the echo service.
	EchoPort = 7

	maxPort = 65535
	maxTTL  = 255
)

// ErrInvalidSettings is wrapped by every settings validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings contains all configurable properties of a ping session.
type Settings struct {
	// Timeout is the time in milliseconds to wait for each reply.
	Timeout int

	// Size is the requested payload size in bytes, clamped to MaxPacketSize before use.
	Size int

	// Count is the amount of echo requests sent before exiting.
	Count int

	// SourcePort is the local port to bind. 0 lets the system assign an ephemeral one.
	SourcePort int

	// SourceAddr is the local address to bind. Empty binds to the unspecified address.
	SourceAddr string

	// TTL is the IP time to live (hop limit on IPv6) of outgoing packets. 0 keeps the system default.
	TTL int

	// EchoPort is the remote port of the echo service.
	EchoPort int

	// Interval is the pause between two rounds.
	Interval time.Duration

	// LoggingLevel is the logrus level used by the session logger.
	LoggingLevel uint32
}

// DefaultSettings returns the default settings for a ping session, change as you wish.
func DefaultSettings() *Settings {
	return &Settings{
		Timeout:      2000,
		Size:         32,
		Count:        4,
		SourcePort:   0,
		SourceAddr:   "",
		TTL:          0,
		EchoPort:     EchoPort,
		Interval:     time.Second,
		LoggingLevel: uint32(log.WarnLevel),
	}
}

// PacketSize returns the payload size actually used on the wire.
func (s *Settings) PacketSize() int {
	return min(s.Size, MaxPacketSize)
}

// TimeoutDuration returns the wait window of a single round.
func (s *Settings) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Millisecond
}

func (s *Settings) validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be a positive integer, got %d", ErrInvalidSettings, s.Timeout)
	}
	if s.Size <= 0 {
		return fmt.Errorf("%w: size must be a positive integer, got %d", ErrInvalidSettings, s.Size)
	}
	if s.Count <= 0 {
		return fmt.Errorf("%w: count must be a positive integer, got %d", ErrInvalidSettings, s.Count)
	}
	if s.SourcePort < 0 || s.SourcePort > maxPort {
		return fmt.Errorf("%w: source port must be between 0 and %d, got %d", ErrInvalidSettings, maxPort, s.SourcePort)
	}
	if s.EchoPort <= 0 || s.EchoPort > maxPort {
		return fmt.Errorf("%w: echo port must be between 1 and %d, got %d", ErrInvalidSettings, maxPort, s.EchoPort)
	}
	if s.TTL < 0 || s.TTL > maxTTL {
		return fmt.Errorf("%w: ttl must be between 0 and %d, got %d", ErrInvalidSettings, maxTTL, s.TTL)
	}
	if s.Interval < 0 {
		return fmt.Errorf("%w: interval must not be negative, got %s", ErrInvalidSettings, s.Interval)
	}
	return nil
}

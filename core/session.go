package core

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// State is a step of the session lifecycle.
type State int

const (
	// Init is the state of a session that has not run yet
	Init State = iota
	// Binding is the state while the first endpoint is created
	Binding
	// Probing is the state while rounds are being sent
	Probing
	// Rebinding is the state while the endpoint is replaced after a lost round
	Rebinding
	// Done is the state of a session that completed or was stopped
	Done
	// Aborted is the state of a session that hit a fatal error
	Aborted
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Binding:
		return "binding"
	case Probing:
		return "probing"
	case Rebinding:
		return "rebinding"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Session is a sequence of echo probes sent to a single host.
type Session struct {
	settings Settings

	// host is the target as given by the user
	host string

	// addr contains the resolved echo address of the target host
	addr *net.UDPAddr

	// local contains the address endpoints are bound to
	local *net.UDPAddr

	// network is udp4 or udp6, depending on the target family
	network string

	// logger is an instance of logrus used to log activities related to this session
	logger *log.Logger

	state   State
	results []float64
	rebinds int

	// localPort is the port of the endpoint currently in use
	localPort int

	stopOnce sync.Once
	stopReqs chan struct{}

	// stHandlers are the callback functions called when the session starts.
	stHandlers []func(*Session)

	// rtHandlers are the callback functions called after every round.
	rtHandlers []func(*Session, *RoundTrip)

	// endHandlers are the callback functions called when the session ends normally.
	endHandlers []func(*Session)
}

// NewSession validates the settings and resolves both ends of a new session. The settings are
// copied, later changes to them do not affect the session.
func NewSession(host string, settings *Settings) (*Session, error) {
	logger := NewLogger(settings.LoggingLevel)

	logger.Debug("Validating settings")
	if err := settings.validate(); err != nil {
		return nil, err
	}
	if settings.Size > MaxPacketSize {
		logger.Infof("Clamping packet size %d to %d bytes", settings.Size, MaxPacketSize)
	}

	logger.Infof("Resolving address %s", host)
	ipaddr, err := net.ResolveIPAddr("ip", host)
	if err != nil {
		return nil, &ResolutionError{Host: host, Err: err}
	}
	logger.Infof("Address %s resolved to IP Address %s", host, ipaddr.String())

	local, err := resolveLocal(settings.SourceAddr, settings.SourcePort)
	if err != nil {
		return nil, err
	}

	session := &Session{
		settings: *settings,
		host:     host,
		addr:     &net.UDPAddr{IP: ipaddr.IP, Port: settings.EchoPort, Zone: ipaddr.Zone},
		local:    local,
		network:  udpNetwork(ipaddr.IP),
		logger:   logger,
		state:    Init,
		stopReqs: make(chan struct{}),
	}

	logger.Infof("Created session to %s over %s from %s", session.addr, session.network, session.local)

	return session, nil
}

// resolveLocal builds the address endpoints are bound to.
func resolveLocal(sourceAddr string, sourcePort int) (*net.UDPAddr, error) {
	local := &net.UDPAddr{Port: sourcePort}
	if sourceAddr == "" {
		return local, nil
	}

	ipaddr, err := net.ResolveIPAddr("ip", sourceAddr)
	if err != nil {
		return nil, &BindError{Addr: sourceAddr, Err: err}
	}
	local.IP = ipaddr.IP
	local.Zone = ipaddr.Zone
	return local, nil
}

// Run executes the rounds of the session and returns one result per round: the round trip time in
// milliseconds or LossSentinel. On a fatal error the results gathered so far are returned with it.
func (s *Session) Run() ([]float64, error) {
	if s.state != Init {
		return nil, errors.New("this session has already run")
	}

	s.state = Binding
	s.logger.Infof("Binding endpoint %s", s.local)
	ep, err := newEndpoint(s.network, s.local, s.settings.TTL, s.settings.TimeoutDuration())
	if err != nil {
		s.state = Aborted
		return nil, err
	}
	defer func() {
		if ep != nil {
			ep.Close()
		}
	}()
	s.localPort = ep.Port()
	s.logger.Debugf("Endpoint bound to %s", ep.LocalAddr())

	s.logger.Info("Calling start callbacks")
	for _, f := range s.stHandlers {
		f(s)
	}

	s.state = Probing
	size := s.settings.PacketSize()
	for seq := 0; seq < s.settings.Count; seq++ {
		if seq > 0 && !s.pause() {
			s.logger.Info("Stop requested, not sending more requests")
			break
		}

		s.logger.Debugf("Sending echo request %d of %d bytes to %s", seq, size, s.addr)
		rt, err := ep.probe(s.addr, size)
		if err != nil {
			s.state = Aborted
			s.logger.Errorf("Could not complete echo request %d: %s", seq, err)
			return s.Results(), err
		}
		rt.Seq = seq

		if rt.Res == Mismatched {
			s.logger.Warnf("Reply %d from %s did not match the payload sent", seq, rt.Src)
		}

		s.results = append(s.results, rt.Millis())
		s.processRoundTrip(rt)

		if needsRebind(rt, s.settings.SourcePort) {
			ep, err = s.rebind(ep)
			if err != nil {
				s.state = Aborted
				return s.Results(), err
			}
		}
	}

	s.state = Done

	s.logger.Info("Calling ending callbacks")
	for _, f := range s.endHandlers {
		f(s)
	}

	s.logger.Info("Session ended")
	return s.Results(), nil
}

// rebind replaces the endpoint after a lost round. On failure the old endpoint is already closed.
func (s *Session) rebind(ep *Endpoint) (*Endpoint, error) {
	s.state = Rebinding
	s.logger.Infof("Replacing endpoint on port %d after a lost round", ep.Port())

	next, err := ep.rebind()
	if err != nil {
		ep.Close()
		return nil, fmt.Errorf("error while replacing endpoint: %w", err)
	}

	s.rebinds++
	s.localPort = next.Port()
	s.state = Probing
	s.logger.Debugf("Endpoint rebound to port %d", s.localPort)
	return next, nil
}

// pause waits for the interval between two rounds. It returns false if a stop was requested.
func (s *Session) pause() bool {
	timer := time.NewTimer(s.settings.Interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-s.stopReqs:
		return false
	}
}

// processRoundTrip calls all handlers for a round trip.
func (s *Session) processRoundTrip(rt *RoundTrip) {
	for _, f := range s.rtHandlers {
		f(s, rt)
	}
}

// RequestStop ends the session once the round in flight completes. The end callbacks still run.
func (s *Session) RequestStop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Requesting to end session")
		close(s.stopReqs)
	})
}

// State returns the lifecycle step of the session.
func (s *Session) State() State {
	return s.state
}

// Results returns a copy of the results gathered so far.
func (s *Session) Results() []float64 {
	return append([]float64(nil), s.results...)
}

// Statistics summarizes the results gathered so far.
func (s *Session) Statistics() Statistics {
	return Summarize(s.results)
}

// Rebinds returns how many times the endpoint was replaced.
func (s *Session) Rebinds() int {
	return s.rebinds
}

// LocalPort returns the local port of the endpoint in use.
func (s *Session) LocalPort() int {
	return s.localPort
}

// Host is the target host as given to NewSession.
func (s *Session) Host() string {
	return s.host
}

// Address is the resolved echo address of the target host in this session
func (s *Session) Address() *net.UDPAddr {
	return s.addr
}

// PacketSize is the payload size sent on the wire.
func (s *Session) PacketSize() int {
	return s.settings.PacketSize()
}

// AddStHandler adds a handler function that will be called when the session starts
func (s *Session) AddStHandler(handler func(*Session)) {
	s.stHandlers = append(s.stHandlers, handler)
}

// AddRtHandler adds a handler function that will be called after every round
func (s *Session) AddRtHandler(handler func(*Session, *RoundTrip)) {
	s.rtHandlers = append(s.rtHandlers, handler)
}

// AddEndHandler adds a handler function that will be called when the session ends
func (s *Session) AddEndHandler(handler func(*Session)) {
	s.endHandlers = append(s.endHandlers, handler)
}

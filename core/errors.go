package core

import (
	"fmt"
	"net"
)

// ResolutionError is returned when the target host cannot be resolved to an address.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("Ping request could not find host %s. Please check the name and try again.", e.Host)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// BindError is returned when the local endpoint cannot be created.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("could not bind local endpoint %s: %s", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// TransportError is an I/O failure while exchanging datagrams that is not a timeout.
type TransportError struct {
	Addr net.Addr
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error with %s: %s", e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

package cmd

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikaelmello/echoping/core"
)

// Runner is the struct that is responsible for running the program
type Runner struct {
	session *core.Session
	sigch   chan os.Signal
	endch   chan error
}

// newRunner creates a runner with the initialized values
func newRunner(out io.Writer, host string, settings *core.Settings) (*Runner, error) {
	session, err := core.NewSession(host, settings)
	if err != nil {
		return nil, err
	}

	p := &printer{out: out}
	session.AddStHandler(p.onStart)
	session.AddRtHandler(p.onRoundTrip)
	session.AddEndHandler(p.onEnd)

	return &Runner{
		session: session,
		sigch:   make(chan os.Signal, 1),
		endch:   make(chan error, 1),
	}, nil
}

// Start starts the runner
func (r *Runner) Start() {
	r.handleSignals()

	go func() {
		_, err := r.session.Run()
		r.endch <- err
	}()
}

// RequestStop requests the stop of the session
func (r *Runner) RequestStop() {
	r.session.RequestStop()
}

// Wait blocks the caller until the runner finishes
func (r *Runner) Wait() error {
	err := <-r.endch
	signal.Stop(r.sigch)
	return err
}

// handleSignals stops the session on an interrupt, the statistics gathered so far are still printed
func (r *Runner) handleSignals() {
	signal.Notify(r.sigch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-r.sigch
		r.RequestStop()
	}()
}

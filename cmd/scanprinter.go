package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mikaelmello/echoping/core"
)

// scanPrinter prints hits as workers report them, one whole line at a time.
type scanPrinter struct {
	mu    sync.Mutex
	out   io.Writer
	found int
}

func (p *scanPrinter) onFound(hit core.Hit) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.found++
	fmt.Fprintf(p.out, "found: %s time=%dms\n", hit.Addr, core.RoundHalfAway(float64(hit.RTT)/float64(time.Millisecond)))
}

func (p *scanPrinter) onEnd(scanned int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "scanned %d addresses, %d responded\n", scanned, p.found)
}

package core

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Hit is a scanned address that echoed our payload back.
type Hit struct {
	Addr netip.Addr
	RTT  time.Duration
}

// Scanner sweeps address ranges for hosts running the echo service. Each worker owns its endpoint
// and a disjoint slice of the targets, workers share no mutable state.
type Scanner struct {
	settings Settings
	workers  int
	stagger  time.Duration
	local    *net.UDPAddr
	logger   *log.Logger
}

// NewScanner creates a scanner running workers concurrent sweeps whose launches are spaced by
// stagger. A non-zero source port is the base port: worker i binds SourcePort+i.
func NewScanner(settings *Settings, workers int, stagger time.Duration) (*Scanner, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		return nil, fmt.Errorf("%w: workers must be a positive integer, got %d", ErrInvalidSettings, workers)
	}
	if settings.SourcePort != 0 && settings.SourcePort+workers-1 > maxPort {
		return nil, fmt.Errorf("%w: source port %d plus %d workers exceeds %d",
			ErrInvalidSettings, settings.SourcePort, workers, maxPort)
	}
	if stagger < 0 {
		return nil, fmt.Errorf("%w: stagger must not be negative, got %s", ErrInvalidSettings, stagger)
	}

	local, err := resolveLocal(settings.SourceAddr, 0)
	if err != nil {
		return nil, err
	}

	return &Scanner{
		settings: *settings,
		workers:  workers,
		stagger:  stagger,
		local:    local,
		logger:   NewLogger(settings.LoggingLevel),
	}, nil
}

// Scan probes every target once and calls onFound for each one that replied. onFound is called from
// several goroutines at once. Scan returns the number of addresses probed. Only bind failures abort
// the scan, unreachable targets are skipped.
func (sc *Scanner) Scan(ctx context.Context, targets []netip.Addr, onFound func(Hit)) (int, error) {
	var scanned atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	launches := rate.NewLimiter(rate.Every(sc.stagger), 1)

	for i, slice := range partition(targets, sc.workers) {
		if err := launches.Wait(gctx); err != nil {
			sc.logger.Debugf("Not launching worker %d: %s", i, err)
			break
		}

		sc.logger.Debugf("Launching worker %d over %s-%s", i, slice[0], slice[len(slice)-1])
		g.Go(func() error {
			return sc.sweep(gctx, i, slice, onFound, &scanned)
		})
	}

	err := g.Wait()
	return int(scanned.Load()), err
}

// sweep probes each target of a single worker.
func (sc *Scanner) sweep(ctx context.Context, worker int, targets []netip.Addr, onFound func(Hit),
	scanned *atomic.Int64) error {

	local := *sc.local
	if sc.settings.SourcePort != 0 {
		local.Port = sc.settings.SourcePort + worker
	}

	network := udpNetwork(net.IP(targets[0].AsSlice()))
	ep, err := newEndpoint(network, &local, sc.settings.TTL, sc.settings.TimeoutDuration())
	if err != nil {
		return fmt.Errorf("worker %d: %w", worker, err)
	}
	defer func() {
		if ep != nil {
			ep.Close()
		}
	}()

	size := sc.settings.PacketSize()
	for _, target := range targets {
		if ctx.Err() != nil {
			return nil
		}

		dst := net.UDPAddrFromAddrPort(netip.AddrPortFrom(target, uint16(sc.settings.EchoPort)))
		rt, err := ep.probe(dst, size)
		scanned.Add(1)
		if err != nil {
			sc.logger.Debugf("Skipping %s: %s", target, err)
			continue
		}

		if rt.Res == Replied {
			onFound(Hit{Addr: target, RTT: rt.Time})
			continue
		}

		if needsRebind(rt, sc.settings.SourcePort) {
			next, err := ep.rebind()
			if err != nil {
				return fmt.Errorf("worker %d: error while replacing endpoint: %w", worker, err)
			}
			ep = next
		}
	}

	return nil
}

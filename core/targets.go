package core

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// MaxScanTargets bounds how many addresses a single scan expression may expand to.
const MaxScanTargets = 1 << 20

// ParseTargets expands a single address, a CIDR prefix ("17.0.0.0/16") or an inclusive range
// ("10.0.0.1-10.0.0.20") into the list of addresses it covers, in ascending order.
func ParseTargets(expr string) ([]netip.Addr, error) {
	expr = strings.TrimSpace(expr)

	var r netipx.IPRange
	switch {
	case strings.Contains(expr, "/"):
		prefix, err := netip.ParsePrefix(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid prefix %q: %w", expr, err)
		}
		r = netipx.RangeOfPrefix(prefix.Masked())
	case strings.Contains(expr, "-"):
		parsed, err := netipx.ParseIPRange(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", expr, err)
		}
		r = parsed
	default:
		addr, err := netip.ParseAddr(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", expr, err)
		}
		r = netipx.IPRangeFrom(addr, addr)
	}

	if !r.IsValid() {
		return nil, fmt.Errorf("invalid target range %q", expr)
	}

	var targets []netip.Addr
	for addr := r.From(); ; addr = addr.Next() {
		if len(targets) == MaxScanTargets {
			return nil, fmt.Errorf("target range %q covers more than %d addresses", expr, MaxScanTargets)
		}
		targets = append(targets, addr.Unmap())
		if addr == r.To() {
			break
		}
	}

	return targets, nil
}

// partition splits targets into at most n contiguous, disjoint slices of near equal length.
func partition(targets []netip.Addr, n int) [][]netip.Addr {
	if n <= 0 || len(targets) == 0 {
		return nil
	}
	n = min(n, len(targets))

	parts := make([][]netip.Addr, 0, n)
	chunk := (len(targets) + n - 1) / n
	for start := 0; start < len(targets); start += chunk {
		end := min(start+chunk, len(targets))
		parts = append(parts, targets[start:end:end])
	}
	return parts
}

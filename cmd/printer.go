package cmd

import (
	"fmt"
	"io"

	"github.com/mikaelmello/echoping/core"
)

// printer renders a session the way the Windows ping tool does.
type printer struct {
	out io.Writer
}

func (p *printer) onStart(s *core.Session) {
	ip := s.Address().IP.String()
	if ip == s.Host() {
		fmt.Fprintf(p.out, "\nPinging %s with %d bytes of data:\n", s.Host(), s.PacketSize())
		return
	}

	fmt.Fprintf(p.out, "\nPinging %s [%s] with %d bytes of data:\n", s.Host(), ip, s.PacketSize())
}

func (p *printer) onRoundTrip(s *core.Session, rt *core.RoundTrip) {
	switch rt.Res {
	case core.Replied:
		fmt.Fprintf(p.out, "Reply from %s: bytes=%d time=%dms\n",
			s.Host(), s.PacketSize(), core.RoundHalfAway(rt.Millis()))
	default:
		fmt.Fprintln(p.out, "Request timed out.")
	}
}

func (p *printer) onEnd(s *core.Session) {
	printStatistics(p.out, s.Host(), s.Statistics())
}

// printStatistics prints the summary block. The timing lines only appear when something was received.
func printStatistics(out io.Writer, host string, stats core.Statistics) {
	fmt.Fprintf(out, "\nPing statistics for %s:\n", host)
	fmt.Fprintf(out, "    Packets: Sent = %d, Received = %d, Lost = %d (%d%% loss),\n",
		stats.Sent, stats.Received, stats.Lost, stats.LossPercent)

	if stats.Times == nil {
		return
	}

	fmt.Fprintln(out, "Approximate round trip times in milli-seconds:")
	fmt.Fprintf(out, "    Minimum = %dms, Maximum = %dms, Average = %dms\n",
		core.RoundHalfAway(stats.Times.Min), core.RoundHalfAway(stats.Times.Max), core.RoundHalfAway(stats.Times.Avg))
}

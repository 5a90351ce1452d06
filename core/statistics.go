package core

// Statistics aggregate the results of a session.
type Statistics struct {
	// Sent is the total amount of echo requests sent.
	Sent int

	// Received is the total amount of rounds that got their exact payload back in time.
	Received int

	// Lost is the total amount of rounds that timed out or got a mismatched reply.
	Lost int

	// LossPercent is 100*Lost/Sent rounded half away from zero.
	LossPercent int

	// Times is nil when nothing was received.
	Times *Times
}

// Times contains the round trip times in milliseconds of the received rounds.
type Times struct {
	Min float64
	Max float64
	Avg float64
}

// Summarize computes the statistics of a result sequence. Positive values are round trip times in
// milliseconds, anything else is a lost round.
func Summarize(results []float64) Statistics {
	stats := Statistics{Sent: len(results)}

	var times Times
	var sum float64
	for _, rtt := range results {
		if rtt <= 0 {
			stats.Lost++
			continue
		}

		if stats.Received == 0 {
			times.Min = rtt
			times.Max = rtt
		}
		times.Min = min(times.Min, rtt)
		times.Max = max(times.Max, rtt)
		sum += rtt
		stats.Received++
	}

	if stats.Sent > 0 {
		stats.LossPercent = RoundHalfAway(100 * float64(stats.Lost) / float64(stats.Sent))
	}

	if stats.Received > 0 {
		times.Avg = sum / float64(stats.Received)
		stats.Times = &times
	}

	return stats
}

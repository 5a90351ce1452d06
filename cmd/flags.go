package cmd

import (
	"fmt"

	"github.com/mikaelmello/echoping/core"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// addProbeFlags registers the flags shared by every command that sends probes.
func addProbeFlags(flags *pflag.FlagSet, settings *core.Settings) {
	flags.IntVarP(&settings.Size, "size", "l", settings.Size,
		fmt.Sprintf("Payload size in bytes, larger values are clamped to %d", core.MaxPacketSize))
	flags.IntVarP(&settings.Timeout, "timeout", "w", settings.Timeout, "Time in milliseconds to wait for each reply")
	flags.IntVarP(&settings.SourcePort, "port", "p", settings.SourcePort, "Source port, 0 lets the system choose")
	flags.StringVarP(&settings.SourceAddr, "source", "S", settings.SourceAddr, "Source address to send from")
	flags.IntVarP(&settings.TTL, "ttl", "i", settings.TTL, "Time to live of outgoing packets, 0 keeps the system default")
	flags.IntVar(&settings.EchoPort, "echo-port", settings.EchoPort, "Port of the echo service")
}

func addVerboseFlag(flags *pflag.FlagSet, verbose *bool) {
	flags.BoolVarP(verbose, "verbose", "v", false, "Log debug information to stderr")
}

// checkSourcePort rejects an explicitly given source port that is not a positive integer.
func checkSourcePort(flags *pflag.FlagSet, settings *core.Settings) error {
	if flags.Changed("port") && settings.SourcePort <= 0 {
		return &usageError{err: fmt.Errorf("source port must be a positive integer, got %d", settings.SourcePort)}
	}
	return nil
}

func applyVerbose(settings *core.Settings, verbose bool) {
	if verbose {
		settings.LoggingLevel = uint32(log.DebugLevel)
	}
}

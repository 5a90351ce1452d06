package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikaelmello/echoping/core"
	"github.com/spf13/cobra"
)

const (
	defaultScanWorkers = 16
	defaultScanStagger = 13 * time.Millisecond
	defaultScanTimeout = 110
)

// targetArgs accepts exactly one target expression.
func targetArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &usageError{err: fmt.Errorf("expected one target range, got %d", len(args))}
	}
	return nil
}

func newScanCmd() *cobra.Command {
	settings := core.DefaultSettings()
	settings.Timeout = defaultScanTimeout
	settings.Count = 1

	var workers int
	var stagger time.Duration
	var verbose bool

	scanCmd := &cobra.Command{
		Use:   "scan [flags] targets",
		Short: "Sweep an address range for hosts running the echo service",
		Long: "scan sends one echo probe to every address of a range and reports those that reply. " +
			"Targets are a single address, a CIDR prefix or an inclusive range such as 10.0.0.1-10.0.0.50",
		Example: "  echoping scan 17.0.0.0/16\n  echoping scan -t 64 -w 200 10.0.0.1-10.0.3.254",
		Args:    targetArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkSourcePort(cmd.Flags(), settings); err != nil {
				return err
			}
			applyVerbose(settings, verbose)

			targets, err := core.ParseTargets(args[0])
			if err != nil {
				return &usageError{err: err}
			}

			scanner, err := core.NewScanner(settings, workers, stagger)
			if err != nil {
				if errors.Is(err, core.ErrInvalidSettings) {
					return &usageError{err: err}
				}
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := &scanPrinter{out: cmd.OutOrStdout()}
			scanned, err := scanner.Scan(ctx, targets, p.onFound)
			if err != nil {
				return err
			}

			p.onEnd(scanned)
			return nil
		},
	}

	flags := scanCmd.Flags()
	flags.IntVarP(&workers, "workers", "t", defaultScanWorkers, "Number of concurrent sweeps")
	flags.DurationVar(&stagger, "stagger", defaultScanStagger, "Delay between the launch of two sweeps")
	addProbeFlags(flags, settings)
	addVerboseFlag(flags, &verbose)

	return scanCmd
}

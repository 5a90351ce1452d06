package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mikaelmello/echoping/core"
	"github.com/spf13/cobra"
)

// usageError marks errors caused by how the program was invoked. They are reported along with the
// usage text.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func flagError(cmd *cobra.Command, err error) error {
	return &usageError{err: err}
}

// hostArgs accepts exactly one target host.
func hostArgs(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return &usageError{err: errors.New("a target host is required")}
	case 1:
		return nil
	default:
		return &usageError{err: fmt.Errorf("invalid syntax: multiple hosts %q", args)}
	}
}

func newRootCmd() *cobra.Command {
	settings := core.DefaultSettings()
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "echoping [flags] host",
		Short: "echoping your ping over the echo protocol",
		Long: "echoping measures round trip times the way ping does, but sends UDP datagrams to the echo " +
			"service (port 7) instead of ICMP messages, so it needs no privileges",
		Args:          hostArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkSourcePort(cmd.Flags(), settings); err != nil {
				return err
			}
			applyVerbose(settings, verbose)
			return runPing(cmd, args[0], settings)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(flagError)

	flags := rootCmd.Flags()
	flags.IntVarP(&settings.Count, "count", "n", settings.Count, "Number of echo requests to send")
	addProbeFlags(flags, settings)
	addVerboseFlag(flags, &verbose)

	rootCmd.AddCommand(newScanCmd())
	return rootCmd
}

// runPing runs a session to host, printing every round and the final statistics.
func runPing(cmd *cobra.Command, host string, settings *core.Settings) error {
	r, err := newRunner(cmd.OutOrStdout(), host, settings)
	if err != nil {
		if errors.Is(err, core.ErrInvalidSettings) {
			return &usageError{err: err}
		}
		return err
	}

	r.Start()
	return r.Wait()
}

// Execute runs the command line of the process.
func Execute() error {
	return execute(newRootCmd(), os.Args[1:])
}

func execute(rootCmd *cobra.Command, args []string) error {
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		if cmd == nil {
			cmd = rootCmd
		}
		reportError(cmd, err)
	}
	return err
}

// reportError prints err as a single line, followed by the usage when the invocation was wrong.
func reportError(cmd *cobra.Command, err error) {
	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", uerr.err)
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return
	}

	var resErr *core.ResolutionError
	if errors.As(err, &resErr) {
		fmt.Fprintln(cmd.OutOrStdout(), resErr)
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Error:", err)
}

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/jacoelho/manifestmerger/internal/manifest/report"
)

// globalFlags holds the persistent flags shared by every subcommand,
// built fresh per run() call rather than as package-level state, so
// repeated invocations within one process (as in tests) never leak
// state across runs.
type globalFlags struct {
	verbose        bool
	logPath        string
	cpuProfilePath string
	memProfilePath string
}

// run builds a fresh root command, executes it against args, and returns
// the process exit code: 0 on success, 1 on a merge/runtime error, 2 on a
// flag error or a usage error a subcommand reports. This mirrors
// cmd/xmllint's runWithArgs convention.
func run(args []string, stdout, stderr io.Writer) int {
	flags := &globalFlags{}
	root := newRootCmd(flags)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	var stopCPUProfile func() error
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if flags.cpuProfilePath != "" {
			stop, err := startCPUProfile(flags.cpuProfilePath)
			if err != nil {
				return fmt.Errorf("start cpu profile: %w", err)
			}
			stopCPUProfile = stop
		}
		return nil
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if stopCPUProfile != nil {
			if err := stopCPUProfile(); err != nil {
				return err
			}
		}
		if flags.memProfilePath != "" {
			if err := writeMemProfile(flags.memProfilePath); err != nil {
				return err
			}
		}
		return nil
	}

	if err := root.Execute(); err != nil {
		if code, ok := asExitCode(err); ok {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(stderr, "error:", msg)
			}
			return code
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// exitCodeError lets a subcommand request a specific process exit code
// (2 for usage errors, mirroring cmd/xmllint) while still returning a
// normal Go error cobra can print.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func asExitCode(err error) (int, bool) {
	var ec *exitCodeError
	for err != nil {
		if v, ok := err.(*exitCodeError); ok {
			ec = v
			break
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	if ec == nil {
		return 0, false
	}
	return ec.code, true
}

func usageError(err error) error {
	return &exitCodeError{code: 2, err: err}
}

func newRootCmd(flags *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "manifestmerger",
		Short:         "Merge Android library manifests into a primary manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose progress logging")
	root.PersistentFlags().StringVar(&flags.logPath, "log", "", "write operational log to this path ('-' for stderr)")
	root.PersistentFlags().StringVar(&flags.cpuProfilePath, "cpuprofile", "", "write CPU profile to file")
	root.PersistentFlags().StringVar(&flags.memProfilePath, "memprofile", "", "write memory profile to file")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(newMergeCmd(flags))
	root.AddCommand(newCheckCmd(flags))
	root.AddCommand(newWatchCmd(flags))
	return root
}

// newDriverLogger builds the operational logger for a subcommand run. A
// driver invoked without --log stays silent; one invoked with --log writes
// JSON log entries to that path ('-' for stderr).
func newDriverLogger(flags *globalFlags) (*report.Logger, error) {
	if flags.logPath == "" {
		return report.NewNopLogger(), nil
	}
	return report.NewFileLogger(flags.logPath, flags.verbose)
}

func startCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("start cpu profile %s: %w", path, err)
	}
	return func() error {
		pprof.StopCPUProfile()
		return f.Close()
	}, nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile %s: %w", path, err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write mem profile %s: %w", path, err)
	}
	return f.Close()
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/jacoelho/manifestmerger/internal/manifest/report"
)

func newCheckCmd(global *globalFlags) *cobra.Command {
	f := &mergeRequestFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the merge and report diagnostics without writing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, global, f)
		},
	}
	addMergeRequestFlags(cmd, f)
	return cmd
}

// runCheck runs the merge purely to surface diagnostics: unlike merge,
// it never writes a result or touches a fingerprint file, so it is safe
// to run as a pre-commit or CI gate.
func runCheck(cmd *cobra.Command, global *globalFlags, f *mergeRequestFlags) error {
	logger, err := newDriverLogger(global)
	if err != nil {
		return err
	}
	defer logger.Sync()

	primary, libraries, err := loadMergeInputs(cmd, f)
	if err != nil {
		return err
	}
	opts, err := buildMergeOptions(f)
	if err != nil {
		return usageError(err)
	}

	logger.MergeStarted(f.mainPath, len(libraries))
	_, diags := primary.Merge(libraries, opts)
	logger.MergeFinished(f.mainPath, diags)

	if err := report.WriteDiagnostics(cmd.ErrOrStderr(), diags); err != nil {
		return err
	}
	if diags.HasErrors() {
		return &exitCodeError{code: 1, err: errMergeFailed}
	}
	return nil
}

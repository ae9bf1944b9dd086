package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jacoelho/manifestmerger/internal/manifest/report"
)

func newMergeCmd(global *globalFlags) *cobra.Command {
	f := &mergeRequestFlags{}
	var outPath string
	var fingerprintPath string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge library manifests into a primary manifest and write the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, global, f, outPath, fingerprintPath)
		},
	}
	addMergeRequestFlags(cmd, f)
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the merged manifest to")
	cmd.Flags().StringVar(&fingerprintPath, "fingerprint", "", "path to a dependency fingerprint file; skip the merge if inputs are unchanged")
	return cmd
}

func runMerge(cmd *cobra.Command, global *globalFlags, f *mergeRequestFlags, outPath, fingerprintPath string) error {
	if outPath == "" {
		return usageError(errRequiredFlag("--out"))
	}

	logger, err := newDriverLogger(global)
	if err != nil {
		return err
	}
	defer logger.Sync()

	libArgs, err := resolveLibraryPaths(cmd, f)
	if err != nil {
		return err
	}
	inputPaths := append([]string{f.mainPath}, libraryPaths(libArgs)...)
	if fingerprintPath != "" {
		unchanged, err := fingerprintUnchanged(fingerprintPath, inputPaths, osStat)
		if err != nil {
			return err
		}
		if unchanged {
			logger.FingerprintSkipped(fingerprintPath)
			return nil
		}
	}

	primary, libraries, err := loadMergeInputs(cmd, f)
	if err != nil {
		return err
	}
	opts, err := buildMergeOptions(f)
	if err != nil {
		return usageError(err)
	}

	logger.MergeStarted(f.mainPath, len(libraries))
	result, diags := primary.Merge(libraries, opts)
	logger.MergeFinished(f.mainPath, diags)

	if global.verbose || diags.HasErrors() {
		if err := report.WriteDiagnostics(cmd.ErrOrStderr(), diags); err != nil {
			return err
		}
	}
	if diags.HasErrors() {
		return &exitCodeError{code: 1, err: errMergeFailed}
	}

	out, err := result.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return err
	}

	if fingerprintPath != "" {
		fp, err := computeFingerprint(inputPaths, osStat)
		if err != nil {
			return err
		}
		if err := fp.save(fingerprintPath); err != nil {
			return err
		}
	}
	return nil
}

func libraryPaths(args []libraryArg) []string {
	paths := make([]string, len(args))
	for i, a := range args {
		paths[i] = a.Path
	}
	return paths
}

func fingerprintUnchanged(path string, inputs []string, stat statFunc) (bool, error) {
	recorded, err := loadFingerprint(path)
	if err != nil {
		return false, err
	}
	if len(recorded.Inputs) == 0 {
		return false, nil
	}
	current, err := computeFingerprint(inputs, stat)
	if err != nil {
		return false, err
	}
	return current.unchanged(recorded), nil
}

func errRequiredFlag(name string) error { return &flagRequiredError{name: name} }

type flagRequiredError struct{ name string }

func (e *flagRequiredError) Error() string { return e.name + " is required" }

var errMergeFailed = mergeFailedError{}

// mergeFailedError carries no message: the diagnostics stream already
// printed to stderr is the user-visible explanation (§6, §7).
type mergeFailedError struct{}

func (mergeFailedError) Error() string { return "" }

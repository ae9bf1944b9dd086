package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	manifestmerger "github.com/jacoelho/manifestmerger"
)

// mergeRequestFlags are the flags shared by the merge and check
// subcommands: what to merge and with which options. merge additionally
// writes the result; check only reports diagnostics.
type mergeRequestFlags struct {
	mainPath               string
	libs                   []string
	configPath             string
	lenientNumericLimits   bool
	markerStyle            string
	allowedFeatureOverride bool
}

func addMergeRequestFlags(cmd *cobra.Command, f *mergeRequestFlags) {
	cmd.Flags().StringVar(&f.mainPath, "main", "", "path to the primary AndroidManifest.xml")
	cmd.Flags().StringArrayVar(&f.libs, "lib", nil, "path (or id=path) to a library manifest; repeatable")
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a manifest-merger.yaml config file")
	cmd.Flags().BoolVar(&f.lenientNumericLimits, "lenient-numeric-limits", false, "downgrade malformed minSdkVersion values to warnings instead of errors")
	cmd.Flags().StringVar(&f.markerStyle, "marker-style", "text", "library contribution marker style: text or comment")
	cmd.Flags().BoolVar(&f.allowedFeatureOverride, "allow-feature-override", false, "allow a library's glEsVersion to exceed the primary's without a warning")
}

// resolveLibraryPaths merges --lib flags with any libraries named in a
// --config file (config entries first, so repeated --lib flags extend a
// base list), and fills in any merge-option flag the user left at its
// default from the config file's equivalent setting.
func resolveLibraryPaths(cmd *cobra.Command, f *mergeRequestFlags) ([]libraryArg, error) {
	var args []libraryArg
	if f.configPath != "" {
		cfg, err := loadFileConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		for _, p := range cfg.Libraries {
			args = append(args, libraryArg{Path: p})
		}
		if !cmd.Flags().Changed("lenient-numeric-limits") {
			f.lenientNumericLimits = cfg.LenientNumericLimits
		}
		if !cmd.Flags().Changed("marker-style") && cfg.MarkerStyle != "" {
			f.markerStyle = cfg.MarkerStyle
		}
		if !cmd.Flags().Changed("allow-feature-override") {
			f.allowedFeatureOverride = cfg.AllowedFeatureOverride
		}
	}
	for _, raw := range f.libs {
		args = append(args, parseLibraryArg(raw))
	}
	return args, nil
}

func buildMergeOptions(f *mergeRequestFlags) (manifestmerger.MergeOptions, error) {
	opts := manifestmerger.NewMergeOptions().
		WithStrictNumericLimits(!f.lenientNumericLimits).
		WithAllowedFeatureOverride(f.allowedFeatureOverride)

	switch f.markerStyle {
	case "text":
		opts = opts.WithLibraryMarkerStyle(manifestmerger.MarkerStylePlainText)
	case "comment":
		opts = opts.WithLibraryMarkerStyle(manifestmerger.MarkerStyleComment)
	default:
		return manifestmerger.MergeOptions{}, fmt.Errorf("unrecognized --marker-style %q, want \"text\" or \"comment\"", f.markerStyle)
	}
	if err := opts.Validate(); err != nil {
		return manifestmerger.MergeOptions{}, err
	}
	return opts, nil
}

// loadMergeInputs opens the primary manifest and every resolved library
// from the local filesystem.
func loadMergeInputs(cmd *cobra.Command, f *mergeRequestFlags) (*manifestmerger.Manifest, []manifestmerger.Library, error) {
	if f.mainPath == "" {
		return nil, nil, usageError(fmt.Errorf("--main is required"))
	}
	primary, err := manifestmerger.LoadManifestFile(f.mainPath)
	if err != nil {
		return nil, nil, err
	}

	libArgs, err := resolveLibraryPaths(cmd, f)
	if err != nil {
		return nil, nil, err
	}

	libraries := make([]manifestmerger.Library, 0, len(libArgs))
	for _, la := range libArgs {
		id := la.ID
		if id == "" {
			id = resolveLibraryID(la.Path)
		}
		file, err := os.Open(la.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open library %s: %w", la.Path, err)
		}
		lib, err := manifestmerger.LoadLibrary(file, id)
		closeErr := file.Close()
		if err != nil {
			return nil, nil, err
		}
		if closeErr != nil {
			return nil, nil, closeErr
		}
		libraries = append(libraries, lib)
	}
	return primary, libraries, nil
}

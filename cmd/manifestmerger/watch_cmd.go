package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jacoelho/manifestmerger/internal/manifest/report"
)

func newWatchCmd(global *globalFlags) *cobra.Command {
	f := &mergeRequestFlags{}
	var outPath string
	var fingerprintPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the primary and library manifests and re-merge on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, global, f, outPath, fingerprintPath)
		},
	}
	addMergeRequestFlags(cmd, f)
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the merged manifest to")
	cmd.Flags().StringVar(&fingerprintPath, "fingerprint", "", "path to a dependency fingerprint file, rewritten on every re-merge")
	return cmd
}

func runWatch(cmd *cobra.Command, global *globalFlags, f *mergeRequestFlags, outPath, fingerprintPath string) error {
	if outPath == "" {
		return usageError(errRequiredFlag("--out"))
	}

	logger, err := newDriverLogger(global)
	if err != nil {
		return err
	}
	defer logger.Sync()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	libArgs, err := resolveLibraryPaths(cmd, f)
	if err != nil {
		return err
	}
	paths := append([]string{f.mainPath}, libraryPaths(libArgs)...)
	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WatchStarted(paths)
	return watchLoop(ctx, watcher.Events, watcher.Errors, logger, func() error {
		return runMerge(cmd, global, f, outPath, fingerprintPath)
	})
}

// watchLoop is the fsnotify event loop, factored out from watcher
// construction so a test can drive it with fake event/error channels
// instead of real filesystem timing, per the "watch loop re-merge"
// testable property.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, logger *report.Logger, mergeFn func() error) error {
	for {
		select {
		case <-ctx.Done():
			logger.WatchStopped("context cancelled")
			return nil

		case event, ok := <-events:
			if !ok {
				logger.WatchStopped("event channel closed")
				return nil
			}
			triggered := event.Op&(fsnotify.Write|fsnotify.Create) != 0
			logger.WatchEvent(event.Name, triggered)
			if triggered {
				if err := mergeFn(); err != nil {
					return err
				}
			}

		case err, ok := <-errs:
			if !ok {
				logger.WatchStopped("error channel closed")
				return nil
			}
			return err
		}
	}
}

// Package report renders a merge's diagnostics stream into the stable
// textual form fixed by §6, and carries the driver's own operational
// logging separately from that format-frozen output. The separation
// mirrors the teacher's split between the error types its model/parser
// packages build and the plain-text rendering cmd/xmllint prints for a
// human.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/manifestmerger/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WriteDiagnostics renders every diagnostic in diags to w, one per line
// (a multi-line incompatible-element diagnostic's diff block stays
// attached to its header line), in emission order. This is the sink a
// driver uses for the stable, test-compared §6 text.
func WriteDiagnostics(w io.Writer, diags errors.Diagnostics) error {
	for _, line := range diags.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Logger wraps a *zap.Logger with the field vocabulary this package's
// callers use for operational events (file I/O, fingerprint checks, the
// watch loop), distinct from the diagnostics a merge produces.
type Logger struct {
	zap    *zap.Logger
	closer io.Closer
}

// NewLogger builds a Logger at the given verbosity, writing JSON log
// entries to stderr. Production config is used as the base, matching the
// teacher's cobra driver convention of defaulting to structured JSON
// output and only lowering the level for --verbose rather than switching
// encoders.
func NewLogger(verbose bool) (*Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	z, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{zap: z}, nil
}

// NewFileLogger builds a Logger at the given verbosity that writes JSON
// log entries to path. path == "-" writes to stderr, the driver's --log
// flag convention, rather than stdout, so operational logging never mixes
// into a merged manifest a caller piped from stdout.
func NewFileLogger(path string, verbose bool) (*Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var sink zapcore.WriteSyncer
	var closer io.Closer
	if path == "-" {
		sink = zapcore.AddSync(os.Stderr)
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		sink = zapcore.AddSync(f)
		closer = f
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), sink, level)
	return &Logger{zap: zap.New(core), closer: closer}, nil
}

// NewNopLogger returns a Logger that discards everything, for tests and
// for driver invocations that never requested a --log destination.
func NewNopLogger() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// Sync flushes any buffered log entries and, for a file-backed Logger,
// closes the underlying file.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	syncErr := l.zap.Sync()
	if l.closer == nil {
		return syncErr
	}
	if closeErr := l.closer.Close(); closeErr != nil && syncErr == nil {
		return closeErr
	}
	return syncErr
}

// MergeStarted logs the start of a merge run: the primary file and how
// many libraries are contributing.
func (l *Logger) MergeStarted(primaryFile string, libraryCount int) {
	l.zap.Info("merge started", zap.String("primary", primaryFile), zap.Int("libraries", libraryCount))
}

// MergeFinished logs a merge's outcome: whether it succeeded and how
// many diagnostics of each severity it produced.
func (l *Logger) MergeFinished(primaryFile string, diags errors.Diagnostics) {
	errorCount, warningCount, progressCount := 0, 0, 0
	for _, d := range diags {
		switch d.Severity {
		case errors.Error:
			errorCount++
		case errors.Warning:
			warningCount++
		case errors.Progress:
			progressCount++
		}
	}
	l.zap.Info("merge finished",
		zap.String("primary", primaryFile),
		zap.Bool("success", !diags.HasErrors()),
		zap.Int("errors", errorCount),
		zap.Int("warnings", warningCount),
		zap.Int("progress", progressCount),
	)
}

// FingerprintSkipped logs that a merge was skipped because no watched
// input changed since the last recorded fingerprint.
func (l *Logger) FingerprintSkipped(fingerprintPath string) {
	l.zap.Debug("fingerprint unchanged, skipping merge", zap.String("fingerprint", fingerprintPath))
}

// WatchStarted logs the beginning of a watch loop over the given paths.
func (l *Logger) WatchStarted(paths []string) {
	l.zap.Info("watch started", zap.Int("watched_files", len(paths)))
}

// WatchEvent logs a single filesystem event observed by the watch loop
// and whether it triggered a re-merge.
func (l *Logger) WatchEvent(path string, triggeredMerge bool) {
	l.zap.Debug("watch event", zap.String("path", path), zap.Bool("triggered_merge", triggeredMerge))
}

// WatchStopped logs the watch loop's termination, e.g. on SIGINT.
func (l *Logger) WatchStopped(reason string) {
	l.zap.Info("watch stopped", zap.String("reason", reason))
}

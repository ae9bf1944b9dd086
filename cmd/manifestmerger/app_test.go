package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/manifestmerger/internal/manifest/report"
)

const fixturePrimary = `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.app">
    <application>
        <activity android:name="com.example.TheApp"/>
    </application>
</manifest>
`

const fixtureLibA = `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.liba">
    <application>
        <activity android:name="com.example.liba.Activity"/>
    </application>
</manifest>
`

const fixtureLibB = `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.libb">
    <application>
        <service android:name="com.example.libb.Service"/>
    </application>
</manifest>
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestCLIRoundTrip grounds §8 scenario 7: a merge subcommand invocation
// exits 0 and writes a merge of the fixtures to --out that carries both
// libraries' contributions.
func TestCLIRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeFixture(t, dir, "AndroidManifest.xml", fixturePrimary)
	libAPath := writeFixture(t, dir, "libA.xml", fixtureLibA)
	libBPath := writeFixture(t, dir, "libB.xml", fixtureLibB)
	outPath := filepath.Join(dir, "merged.xml")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"merge",
		"--main", mainPath,
		"--lib", libAPath,
		"--lib", libBPath,
		"--out", outPath,
	}, &stdout, &stderr)

	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "com.example.liba.Activity")
	assert.Contains(t, string(out), "com.example.libb.Service")
}

// TestCLIRoundTripProgressOnlyWithVerbose grounds the second half of
// scenario 7: diagnostics are only printed when --verbose is set, since
// a clean merge with no conflicts produces no Error/Warning output.
func TestCLIRoundTripProgressOnlyWithVerbose(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeFixture(t, dir, "AndroidManifest.xml", fixturePrimary)
	libAPath := writeFixture(t, dir, "libA.xml", fixtureLibA)
	outPath := filepath.Join(dir, "merged.xml")

	var stdout, stderr bytes.Buffer
	code := run([]string{"merge", "--main", mainPath, "--lib", libAPath, "--out", outPath}, &stdout, &stderr)

	require.Equal(t, 0, code)
	assert.Empty(t, stderr.String(), "a clean merge without --verbose should print no diagnostics")
}

// TestCLIMergeFailsOnConflict exits 1 and prints the incompatible-element
// diagnostic without writing --out.
func TestCLIMergeFailsOnConflict(t *testing.T) {
	dir := t.TempDir()
	primary := `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.app">
    <application>
        <service android:name="com.example.AppService2"/>
    </application>
</manifest>
`
	lib := `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.lib">
    <application>
        <service android:name="com.example.AppService2">
            <intent-filter/>
        </service>
    </application>
</manifest>
`
	mainPath := writeFixture(t, dir, "AndroidManifest.xml", primary)
	libPath := writeFixture(t, dir, "lib.xml", lib)
	outPath := filepath.Join(dir, "merged.xml")

	var stdout, stderr bytes.Buffer
	code := run([]string{"merge", "--main", mainPath, "--lib", libPath, "--out", outPath}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Trying to merge incompatible")
	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err), "merge must not write --out when it fails")
}

// TestCLILogFlagWritesToFile confirms --log <path> actually redirects the
// driver's operational log to that file instead of leaving it unwired.
func TestCLILogFlagWritesToFile(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeFixture(t, dir, "AndroidManifest.xml", fixturePrimary)
	libAPath := writeFixture(t, dir, "libA.xml", fixtureLibA)
	outPath := filepath.Join(dir, "merged.xml")
	logPath := filepath.Join(dir, "merge.log")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"merge", "--main", mainPath, "--lib", libAPath, "--out", outPath, "--log", logPath,
	}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	logBytes, err := os.ReadFile(logPath)
	require.NoError(t, err, "--log must create the named file")
	assert.Contains(t, string(logBytes), "merge started")
	assert.Contains(t, string(logBytes), "merge finished")
}

// TestConfigFileMergeList grounds §8 scenario 9: a manifest-merger.yaml
// naming two library paths produces the same output as passing them via
// repeated --lib flags.
func TestConfigFileMergeList(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeFixture(t, dir, "AndroidManifest.xml", fixturePrimary)
	libAPath := writeFixture(t, dir, "libA.xml", fixtureLibA)
	libBPath := writeFixture(t, dir, "libB.xml", fixtureLibB)

	flagsOut := filepath.Join(dir, "merged-flags.xml")
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"merge", "--main", mainPath, "--lib", libAPath, "--lib", libBPath, "--out", flagsOut,
	}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	configPath := writeFixture(t, dir, "manifest-merger.yaml", "libraries:\n  - "+libAPath+"\n  - "+libBPath+"\n")
	configOut := filepath.Join(dir, "merged-config.xml")
	code = run([]string{
		"merge", "--main", mainPath, "--config", configPath, "--out", configOut,
	}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	flagsBytes, err := os.ReadFile(flagsOut)
	require.NoError(t, err)
	configBytes, err := os.ReadFile(configOut)
	require.NoError(t, err)
	assert.Equal(t, string(flagsBytes), string(configBytes))
}

// TestCheckCmdNeverWritesOutput grounds the check subcommand's dry-run
// contract: a clean check exits 0 and never touches a file.
func TestCheckCmdNeverWritesOutput(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeFixture(t, dir, "AndroidManifest.xml", fixturePrimary)
	libPath := writeFixture(t, dir, "libA.xml", fixtureLibA)

	var stdout, stderr bytes.Buffer
	code := run([]string{"check", "--main", mainPath, "--lib", libPath}, &stdout, &stderr)
	assert.Equal(t, 0, code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "check must not create any new file")
}

// TestCheckCmdExitsOneOnConflict grounds §8 scenario 8: check performs
// the merge in memory, prints diagnostics, writes nothing, and exits 1
// given the scenario-2 conflict fixture.
func TestCheckCmdExitsOneOnConflict(t *testing.T) {
	dir := t.TempDir()
	primary := `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.app">
    <application>
        <service android:name="com.example.AppService2"/>
    </application>
</manifest>
`
	lib := `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.lib">
    <application>
        <service android:name="com.example.AppService2">
            <intent-filter/>
        </service>
    </application>
</manifest>
`
	mainPath := writeFixture(t, dir, "AndroidManifest.xml", primary)
	libPath := writeFixture(t, dir, "lib.xml", lib)

	var stdout, stderr bytes.Buffer
	code := run([]string{"check", "--main", mainPath, "--lib", libPath}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Trying to merge incompatible")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "check must not write any file even on failure")
}

// TestFingerprintSkipsUnchangedMerge grounds the fingerprint plumbing:
// computing the same fingerprint twice over unchanged mtimes compares
// equal, using an injected fake clock instead of real filesystem timing.
func TestFingerprintSkipsUnchangedMerge(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fakeStat := func(path string) (time.Time, error) { return fixed, nil }

	first, err := computeFingerprint([]string{"main.xml", "lib.xml"}, fakeStat)
	require.NoError(t, err)
	second, err := computeFingerprint([]string{"main.xml", "lib.xml"}, fakeStat)
	require.NoError(t, err)
	assert.True(t, first.unchanged(second))

	laterStat := func(path string) (time.Time, error) { return fixed.Add(time.Minute), nil }
	third, err := computeFingerprint([]string{"main.xml", "lib.xml"}, laterStat)
	require.NoError(t, err)
	assert.False(t, first.unchanged(third))
}

// TestWatchLoopRetriggersOnEvent grounds §8 scenario 10: touching a
// watched library file triggers exactly one re-merge, driven through an
// injected fsnotify event channel rather than real filesystem timing.
func TestWatchLoopRetriggersOnEvent(t *testing.T) {
	events := make(chan fsnotify.Event, 1)
	errs := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())

	mergeCount := 0
	mergeFn := func() error {
		mergeCount++
		cancel()
		return nil
	}

	events <- fsnotify.Event{Name: "lib.xml", Op: fsnotify.Write}
	err := watchLoop(ctx, events, errs, report.NewNopLogger(), mergeFn)
	require.NoError(t, err)
	assert.Equal(t, 1, mergeCount)
}

// TestWatchLoopIgnoresNonMutatingEvents grounds the watch loop's event
// filter: a rename/remove event never triggers a re-merge.
func TestWatchLoopIgnoresNonMutatingEvents(t *testing.T) {
	events := make(chan fsnotify.Event, 1)
	errs := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())

	mergeCount := 0
	mergeFn := func() error {
		mergeCount++
		return nil
	}

	events <- fsnotify.Event{Name: "lib.xml", Op: fsnotify.Rename}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := watchLoop(ctx, events, errs, report.NewNopLogger(), mergeFn)
	require.NoError(t, err)
	assert.Equal(t, 0, mergeCount)
}

// TestResolveLibraryIDUsesFileBaseName covers the common, non-uuid path
// of the library-id assignment rule (§2B).
func TestResolveLibraryIDUsesFileBaseName(t *testing.T) {
	assert.Equal(t, "libA", resolveLibraryID("/path/to/libA.xml"))
}

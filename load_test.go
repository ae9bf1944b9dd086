package manifestmerger

import (
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"main/AndroidManifest.xml": &fstest.MapFile{Data: []byte(samplePrimary)},
		"libs/one/AndroidManifest.xml": &fstest.MapFile{Data: []byte(sampleLibrary)},
		"libs/two/AndroidManifest.xml": &fstest.MapFile{Data: []byte(`<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.lib2">
    <application>
        <service android:name="com.example.lib2.LibService"/>
    </application>
</manifest>
`)},
	}
}

func TestDiscoverLibrariesImmediateChildren(t *testing.T) {
	fsys := testFS()
	libraries, err := DiscoverLibraries(fsys, "libs", DiscoverOptions{Policy: DiscoverImmediateChildren})
	if err != nil {
		t.Fatalf("DiscoverLibraries() error = %v", err)
	}
	if len(libraries) != 2 {
		t.Fatalf("len(libraries) = %d, want 2", len(libraries))
	}
}

func TestDiscoverLibrariesRootOnly(t *testing.T) {
	fsys := testFS()
	libraries, err := DiscoverLibraries(fsys, "libs/one", DiscoverOptions{})
	if err != nil {
		t.Fatalf("DiscoverLibraries() error = %v", err)
	}
	if len(libraries) != 1 {
		t.Fatalf("len(libraries) = %d, want 1", len(libraries))
	}
}

func TestMergerMergeFiles(t *testing.T) {
	fsys := testFS()
	merger := NewMerger(WithDriverFS(fsys))

	result, diags, err := merger.MergeFiles("main/AndroidManifest.xml", []LibraryLocation{
		{ID: "one", Path: "libs/one/AndroidManifest.xml"},
		{ID: "two", Path: "libs/two/AndroidManifest.xml"},
	})
	if err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}
	if diags.HasErrors() {
		t.Fatalf("MergeFiles() diagnostics = %v", diags)
	}
	out, err := result.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !containsAll(string(out), "com.example.lib.LibActivity", "com.example.lib2.LibService") {
		t.Fatalf("merged manifest missing library contributions:\n%s", out)
	}

	oneIdx := strings.Index(string(out), "com.example.lib.LibActivity")
	twoIdx := strings.Index(string(out), "com.example.lib2.LibService")
	if oneIdx == -1 || twoIdx == -1 || oneIdx > twoIdx {
		t.Fatalf("library contributions must appear in libraryLocations order, got indices %d, %d", oneIdx, twoIdx)
	}

	reversedResult, reversedDiags, err := merger.MergeFiles("main/AndroidManifest.xml", []LibraryLocation{
		{ID: "two", Path: "libs/two/AndroidManifest.xml"},
		{ID: "one", Path: "libs/one/AndroidManifest.xml"},
	})
	if err != nil {
		t.Fatalf("MergeFiles() error = %v", err)
	}
	if reversedDiags.HasErrors() {
		t.Fatalf("MergeFiles() diagnostics = %v", reversedDiags)
	}
	reversedOut, err := reversedResult.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	reversedOneIdx := strings.Index(string(reversedOut), "com.example.lib.LibActivity")
	reversedTwoIdx := strings.Index(string(reversedOut), "com.example.lib2.LibService")
	if reversedOneIdx == -1 || reversedTwoIdx == -1 || reversedTwoIdx > reversedOneIdx {
		t.Fatalf("reversing libraryLocations must reverse contribution order, got indices %d, %d", reversedOneIdx, reversedTwoIdx)
	}
}

func TestEvaluateFailOnError(t *testing.T) {
	fsys := testFS()
	primary, err := LoadManifestFS(fsys, "main/AndroidManifest.xml")
	if err != nil {
		t.Fatalf("LoadManifestFS() error = %v", err)
	}
	lib, err := LoadLibraryFS(fsys, "libs/two/AndroidManifest.xml", "two")
	if err != nil {
		t.Fatalf("LoadLibraryFS() error = %v", err)
	}
	result, diags := primary.Merge([]Library{lib}, NewMergeOptions())

	outcome := Evaluate(result, diags, FailOnError)
	if outcome.Failed {
		t.Fatalf("Evaluate(FailOnError) = %+v, want not failed", outcome)
	}
}

func containsAll(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

package merge

import (
	"sync"
	"testing"

	"github.com/jacoelho/manifestmerger/internal/manifest/androidns"
)

// TestMergeConcurrent runs many goroutines each merging their own
// independent primary/library pair. Unlike a schema that many
// goroutines can safely validate against at once, tree.Document is a
// private arena per merge, so this exercises that no package-level
// state leaks between concurrent merges rather than that one shared
// document is safe to read from many goroutines. Run with -race.
func TestMergeConcurrent(t *testing.T) {
	const goroutines = 8
	const iterations = 25

	errCh := make(chan string, goroutines*iterations)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				primary, _, primaryApp := newManifest("main.xml")
				libDoc, _, libApp := newManifest("lib.xml")
				libDoc.AppendChild(libApp, newActivity(libDoc, "com.example.LibActivity", 3))

				merged, diags := Merge(primary, []Library{{Doc: libDoc, ID: "lib-one"}}, Options{})
				if diags.HasErrors() {
					errCh <- "unexpected merge error"
					return
				}
				activities := merged.ChildElementsNamed(primaryApp, "activity")
				if len(activities) != 1 {
					errCh <- "expected exactly one appended activity"
					return
				}
				name, ok := merged.GetAttribute(activities[0], androidns.URI, "name")
				if !ok || name != "com.example.LibActivity" {
					errCh <- "activity name mismatch"
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for msg := range errCh {
		t.Fatal(msg)
	}
}

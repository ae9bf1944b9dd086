// Package harness runs a merge scenario end to end (parse primary, parse
// every library, merge, serialize) and reports a single Outcome a test can
// assert against, the way the teacher's differential harness ran one
// schema/document pair against a Validator and captured load/validate
// errors for comparison.
//
// Grounded on internal/testing/harness.go's Case/Result/RunCase shape,
// adapted from "run two engines against one case and diff their errors"
// to "run one merge against one scenario and expose its merged output and
// diagnostics for direct assertion" — this package has one engine, not
// two, so there is no Compare/Equivalent pair to carry over.
package harness

import (
	"strings"

	"github.com/jacoelho/manifestmerger/internal/manifest/merge"
	"github.com/jacoelho/manifestmerger/internal/manifest/xmlreader"
	"github.com/jacoelho/manifestmerger/internal/manifest/xmlwriter"
)

// LibrarySource is one library's raw XML paired with its library id.
type LibrarySource struct {
	ID     string
	Source string
}

// Scenario describes one end-to-end merge run.
type Scenario struct {
	Name      string
	Primary   string
	Libraries []LibrarySource
	Options   merge.Options
}

// Outcome captures a scenario's result: the serialized merged manifest,
// the diagnostics emitted in order, and any hard parse/serialize error
// that kept the merge from running at all.
type Outcome struct {
	Merged      string
	Diagnostics []string
	Err         error
}

// Run executes sc and returns its Outcome.
func Run(sc Scenario) Outcome {
	primaryDoc, err := xmlreader.Read(strings.NewReader(sc.Primary), "main/AndroidManifest.xml")
	if err != nil {
		return Outcome{Err: err}
	}

	libs := make([]merge.Library, 0, len(sc.Libraries))
	for _, l := range sc.Libraries {
		doc, err := xmlreader.Read(strings.NewReader(l.Source), l.ID)
		if err != nil {
			return Outcome{Err: err}
		}
		libs = append(libs, merge.Library{Doc: doc, ID: l.ID})
	}

	merged, diags := merge.Merge(primaryDoc, libs, sc.Options)

	var b strings.Builder
	if err := xmlwriter.Write(&b, merged); err != nil {
		return Outcome{Err: err}
	}

	return Outcome{Merged: b.String(), Diagnostics: diags.Lines()}
}

// ContainsDiagnostic reports whether any diagnostic line contains substr.
func (o Outcome) ContainsDiagnostic(substr string) bool {
	for _, line := range o.Diagnostics {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

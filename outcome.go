package manifestmerger

import "github.com/jacoelho/manifestmerger/errors"

// FailureThreshold selects which diagnostic severities make a merge count
// as failed, the same role SchemaLocationPolicy plays in selecting a
// schema-validation mode: an exported enum the caller picks, converted
// internally into a pass/fail decision over the diagnostic stream.
type FailureThreshold int

const (
	// FailOnError is the engine's own success signal (§6): failure is
	// exactly Diagnostics.HasErrors().
	FailOnError FailureThreshold = iota
	// FailOnWarning additionally treats any Warning as failure, for a
	// driver run in a stricter CI mode.
	FailOnWarning
)

// Outcome pairs a merge Result with a pass/fail verdict under a given
// FailureThreshold, from which a driver can decide its exit code.
type Outcome struct {
	Result      *Result
	Diagnostics errors.Diagnostics
	Failed      bool
}

// Evaluate applies threshold to diags, producing a driver-ready Outcome.
func Evaluate(result *Result, diags errors.Diagnostics, threshold FailureThreshold) Outcome {
	failed := diags.HasErrors()
	if threshold == FailOnWarning {
		for _, d := range diags {
			if d.Severity == errors.Warning {
				failed = true
				break
			}
		}
	}
	return Outcome{Result: result, Diagnostics: diags, Failed: failed}
}

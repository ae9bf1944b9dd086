// Package errors defines the diagnostic taxonomy emitted by the manifest
// merge engine: error codes, severities, and the stable textual rendering
// consumed by tests and by the CLI driver.
package errors

import (
	"fmt"
	"strings"
)

// Severity ranks a Diagnostic's importance. Values are ordered so that
// Error > Warning > Progress holds numerically.
type Severity int

const (
	// Progress records a no-op or informational outcome (e.g. a skipped
	// identical element).
	Progress Severity = iota
	// Warning records an advisory condition that does not fail the merge.
	Warning
	// Error records a condition that makes the merge unsuccessful.
	Error
)

// String renders the single-letter severity code used in diagnostic text.
func (s Severity) String() string {
	switch s {
	case Progress:
		return "P"
	case Warning:
		return "W"
	case Error:
		return "E"
	default:
		return "?"
	}
}

// ErrorCode identifies the kind of diagnostic, independent of its rendered
// message. See §7 of the specification for the taxonomy these belong to.
type ErrorCode string

const (
	// CodeRootNotManifest indicates a library's root element is not <manifest>.
	CodeRootNotManifest ErrorCode = "merge-root-not-manifest"
	// CodeKeyMissing indicates a keyed element is missing its key attribute.
	CodeKeyMissing ErrorCode = "merge-key-missing"
	// CodeIncompatibleElement indicates two keyed elements are not semantically equal.
	CodeIncompatibleElement ErrorCode = "merge-incompatible-element"
	// CodeSDKBound indicates a library's minSdkVersion exceeds the primary's.
	CodeSDKBound ErrorCode = "merge-sdk-bound"
	// CodeIntegerSyntax indicates a minSdkVersion value is not a valid integer.
	CodeIntegerSyntax ErrorCode = "merge-integer-syntax"
	// CodeGLESSyntax indicates a glEsVersion value is not a valid hex literal.
	CodeGLESSyntax ErrorCode = "merge-gles-syntax"
	// CodeGLESTooLow indicates a glEsVersion value below 1.0.
	CodeGLESTooLow ErrorCode = "merge-gles-too-low"
	// CodeGLESDefaultAssumed indicates the primary lacked an explicit glEsVersion.
	CodeGLESDefaultAssumed ErrorCode = "merge-gles-default-assumed"
	// CodeSDKDefaultAssumed indicates the primary lacked an explicit minSdkVersion.
	CodeSDKDefaultAssumed ErrorCode = "merge-sdk-default-assumed"
	// CodeBooleanSyntax indicates a required attribute is neither "true" nor "false".
	CodeBooleanSyntax ErrorCode = "merge-boolean-syntax"
	// CodeDuplicateKey indicates the primary declares the same keyed element twice.
	CodeDuplicateKey ErrorCode = "merge-duplicate-key"
	// CodeSkippedIdentical indicates a library element matched an existing one exactly.
	CodeSkippedIdentical ErrorCode = "merge-skipped-identical"
	// CodeFeatureCollision indicates a uses-feature glEsVersion collision on a named feature.
	CodeFeatureCollision ErrorCode = "merge-feature-collision"
	// CodeInvalidOptions indicates a MergeOptions value failed validation.
	CodeInvalidOptions ErrorCode = "merge-invalid-options"
)

// FileRef pairs a file identifier with an optional source line.
type FileRef struct {
	File string
	Line int // 0 means "no specific line"
}

// String renders the file reference as "<file>" or "<file>:<line>".
func (f FileRef) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}

// Diagnostic is a single structured record produced by the merge engine.
// DiffLines, when non-empty, carries the multi-line attribute/child diff
// block described in §4.4; String writes each line as given, on its own
// line beneath the header, adding no indentation of its own.
type Diagnostic struct {
	Severity  Severity
	Code      ErrorCode
	Message   string
	Primary   *FileRef
	Secondary *FileRef
	DiffLines []string
}

// NewDiagnostic builds a Diagnostic with a formatted message.
func NewDiagnostic(severity Severity, code ErrorCode, primary, secondary *FileRef, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity:  severity,
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Primary:   primary,
		Secondary: secondary,
	}
}

// String renders the diagnostic in the stable textual form defined in §6:
//
//	<S> [<fileRef>[, <fileRef>]] <message>
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteByte(' ')
	if d.Primary != nil || d.Secondary != nil {
		b.WriteByte('[')
		wrote := false
		if d.Primary != nil {
			b.WriteString(d.Primary.String())
			wrote = true
		}
		if d.Secondary != nil {
			if wrote {
				b.WriteString(", ")
			}
			b.WriteString(d.Secondary.String())
		}
		b.WriteString("] ")
	}
	b.WriteString(d.Message)
	for _, line := range d.DiffLines {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

// Diagnostics is an ordered collection of Diagnostic records. It implements
// error so a driver can treat the whole merge outcome as a single error
// value while still inspecting individual records.
type Diagnostics []Diagnostic

// Error implements the error interface, summarizing the collection.
func (d Diagnostics) Error() string {
	switch len(d) {
	case 0:
		return "no diagnostics"
	case 1:
		return d[0].String()
	default:
		return fmt.Sprintf("%s (and %d more)", d[0].String(), len(d)-1)
	}
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
// This is the merge engine's overall success signal (§6): success is
// exactly !HasErrors().
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == Error {
			return true
		}
	}
	return false
}

// Lines renders every diagnostic as one slice entry, in emission order (an
// entry holds several newline-separated lines when the diagnostic carries
// DiffLines). This is the textual form tests compare against.
func (d Diagnostics) Lines() []string {
	lines := make([]string, 0, len(d))
	for _, diag := range d {
		lines = append(lines, diag.String())
	}
	return lines
}

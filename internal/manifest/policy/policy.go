// Package policy implements the per-element-kind merge rules (§4.2): what
// happens when a library contributes a child of `/manifest` or
// `/manifest/application` that collides, by key, with something the
// primary already declares.
//
// Grounded on the teacher's per-facet validation dispatch
// (internal/xsdvalidate's per-kind content validators, one function per
// XSD construct), adapted from "validate this construct against the
// schema" to "decide whether to append, skip, or modify this construct
// against the primary tree".
package policy

import (
	"github.com/jacoelho/manifestmerger/internal/manifest/androidns"
	"github.com/jacoelho/manifestmerger/internal/manifest/diff"
	"github.com/jacoelho/manifestmerger/internal/manifest/equality"
	"github.com/jacoelho/manifestmerger/errors"
	"github.com/jacoelho/manifestmerger/internal/manifest/numeric"
	"github.com/jacoelho/manifestmerger/internal/manifest/path"
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
)

// Action tells the merge engine what to do with a library element once a
// policy has decided its fate.
type Action int

const (
	// ActionSkip leaves the primary tree untouched.
	ActionSkip Action = iota
	// ActionAppend clones the library element (with its leading trivia)
	// into the primary tree.
	ActionAppend
	// ActionModify rewrites an attribute on an existing primary element;
	// Decision.ModifyAttr/ModifyValue name which one.
	ActionModify
)

// Decision is the result of applying a policy to one library element
// against the primary tree's matching sibling, if any.
type Decision struct {
	Action      Action
	ModifyAttr  tree.QName
	ModifyValue string
	Diagnostics []errors.Diagnostic
}

func fileRef(doc *tree.Document, id tree.NodeID) *errors.FileRef {
	return &errors.FileRef{File: doc.FileID, Line: doc.Line(id)}
}

// ApplicationOrder is the fixed relative ordering §4.1 requires for new
// children grouped under a single library's contribution.
var ApplicationOrder = []string{"activity", "activity-alias", "service", "receiver", "provider"}

// EqualityKinds are the application-level kinds whose collision policy is
// "semantically equal or reject" (§4.2.B): activity, activity-alias,
// service, receiver, provider, meta-data.
var EqualityKinds = map[string]bool{
	"activity":       true,
	"activity-alias": true,
	"service":        true,
	"receiver":       true,
	"provider":       true,
	"meta-data":      true,
}

// IgnoredTopLevelKinds are top-level children recognized by name but never
// merged (§4.2.A): their presence in a library is simply ignored.
var IgnoredTopLevelKinds = map[string]bool{
	"supports-screens":    true,
	"uses-configuration":  true,
	"compatible-screens":  true,
	"supports-gl-texture": true,
}

// EqualityCollision applies the "activity-like" policy shared by activity,
// activity-alias, service, receiver, provider, and meta-data: append when
// the primary has no element with this key, skip with a Progress
// diagnostic when the two are semantically equal, or reject with an Error
// diagnostic carrying the attribute/child diff when they are not.
func EqualityCollision(primaryDoc *tree.Document, primaryMatch tree.NodeID, libDoc *tree.Document, libChild tree.NodeID) Decision {
	if primaryMatch == tree.InvalidNode {
		return Decision{Action: ActionAppend}
	}
	if equality.Equal(primaryDoc, primaryMatch, libDoc, libChild) {
		p := path.Of(primaryDoc, primaryMatch)
		diagnostic := errors.NewDiagnostic(errors.Progress, errors.CodeSkippedIdentical,
			fileRef(primaryDoc, primaryMatch), fileRef(libDoc, libChild),
			"Skipping identical %s element.", p.String())
		return Decision{Action: ActionSkip, Diagnostics: []errors.Diagnostic{diagnostic}}
	}
	p := path.Of(primaryDoc, primaryMatch)
	lines := diff.Lines(primaryDoc, primaryMatch, libDoc, libChild)
	diagnostic := errors.NewDiagnostic(errors.Error, errors.CodeIncompatibleElement,
		fileRef(primaryDoc, primaryMatch), fileRef(libDoc, libChild),
		"Trying to merge incompatible %s element:", p.String())
	diagnostic.DiffLines = lines
	return Decision{Action: ActionSkip, Diagnostics: []errors.Diagnostic{diagnostic}}
}

// UsesLibrary applies the `uses-library` required-escalation policy
// (§4.2.B): a missing `android:name` is an Error; a missing `required` is
// treated as true, and an unrecognized one is treated as true and warned
// about; when the
// primary already has the key, the library's effective required is OR'd
// into the primary's attribute.
func UsesLibrary(primaryDoc *tree.Document, primaryMatch tree.NodeID, libDoc *tree.Document, libChild tree.NodeID, duplicateInPrimary bool) Decision {
	var diags []errors.Diagnostic
	name, hasName := libDoc.GetAttribute(libChild, androidns.URI, "name")
	if !hasName || name == "" {
		diags = append(diags, errors.NewDiagnostic(errors.Error, errors.CodeKeyMissing,
			fileRef(libDoc, libChild), nil, "Undefined 'name' attribute"))
		return Decision{Action: ActionSkip, Diagnostics: diags}
	}

	requiredLexical, _ := libDoc.GetAttribute(libChild, androidns.URI, "required")
	required, valid := numeric.ParseRequired(requiredLexical)
	if !valid && requiredLexical != "" {
		diags = append(diags, errors.NewDiagnostic(errors.Warning, errors.CodeBooleanSyntax,
			fileRef(libDoc, libChild), nil,
			"Invalid attribute 'required' in uses-library %s. Expected 'true' or 'false' but found '%s'", name, requiredLexical))
	}

	if duplicateInPrimary {
		diags = append(diags, errors.NewDiagnostic(errors.Warning, errors.CodeDuplicateKey,
			fileRef(primaryDoc, primaryMatch), fileRef(libDoc, libChild),
			"Duplicate uses-library declaration for %s", name))
	}

	if primaryMatch == tree.InvalidNode {
		return Decision{Action: ActionAppend, Diagnostics: diags}
	}
	if !required {
		return Decision{Action: ActionSkip, Diagnostics: diags}
	}
	primaryRequiredLexical, _ := primaryDoc.GetAttribute(primaryMatch, androidns.URI, "required")
	primaryRequired, _ := numeric.ParseRequired(primaryRequiredLexical)
	if primaryRequired {
		return Decision{Action: ActionSkip, Diagnostics: diags}
	}
	return Decision{
		Action:      ActionModify,
		ModifyAttr:  tree.QName{Namespace: androidns.URI, Local: "required"},
		ModifyValue: "true",
		Diagnostics: diags,
	}
}

// UsesSDK applies the `uses-sdk/minSdkVersion` singleton policy (§4.2.A):
// the primary is never modified; a library that declares a strictly
// higher minSdkVersion is an Error. When strict is false, a malformed
// minSdkVersion on either side is reported as a Warning and treated as
// absent (falling back to the default) rather than as an Error. When the
// primary declares no minSdkVersion and the library exceeds the default,
// a Warning noting the assumed default follows the Error.
func UsesSDK(primaryDoc *tree.Document, primarySDK tree.NodeID, libDoc *tree.Document, libSDK tree.NodeID, strict bool) Decision {
	var primaryValue int32 = numeric.DefaultMinSdkVersion
	usedDefault := true
	if primarySDK != tree.InvalidNode {
		if lexical, ok := primaryDoc.GetAttribute(primarySDK, androidns.URI, "minSdkVersion"); ok {
			parsed, err := numeric.ParseSDKInteger(lexical)
			if err != nil {
				if !strict {
					return Decision{Action: ActionSkip, Diagnostics: []errors.Diagnostic{
						errors.NewDiagnostic(errors.Warning, errors.CodeIntegerSyntax, fileRef(primaryDoc, primarySDK), nil, "%s", err.Error()),
					}}
				}
				return Decision{Action: ActionSkip, Diagnostics: []errors.Diagnostic{
					errors.NewDiagnostic(errors.Error, errors.CodeIntegerSyntax, fileRef(primaryDoc, primarySDK), nil, "%s", err.Error()),
				}}
			}
			primaryValue = parsed
			usedDefault = false
		}
	}

	libLexical, hasLib := libDoc.GetAttribute(libSDK, androidns.URI, "minSdkVersion")
	if !hasLib {
		return Decision{Action: ActionSkip}
	}
	libValue, err := numeric.ParseSDKInteger(libLexical)
	if err != nil {
		if !strict {
			return Decision{Action: ActionSkip, Diagnostics: []errors.Diagnostic{
				errors.NewDiagnostic(errors.Warning, errors.CodeIntegerSyntax, fileRef(libDoc, libSDK), nil, "%s", err.Error()),
			}}
		}
		return Decision{Action: ActionSkip, Diagnostics: []errors.Diagnostic{
			errors.NewDiagnostic(errors.Error, errors.CodeIntegerSyntax, fileRef(libDoc, libSDK), nil, "%s", err.Error()),
		}}
	}
	if libValue > primaryValue {
		diags := []errors.Diagnostic{
			errors.NewDiagnostic(errors.Error, errors.CodeSDKBound, fileRef(primaryDoc, primarySDK), fileRef(libDoc, libSDK),
				"Main manifest has <uses-sdk android:minSdkVersion='%d'> but library uses minSdkVersion='%d'", primaryValue, libValue),
		}
		if usedDefault {
			diags = append(diags, errors.NewDiagnostic(errors.Warning, errors.CodeSDKDefaultAssumed, fileRef(primaryDoc, primarySDK), nil,
				"Main manifest declares no minSdkVersion; assumed the default of %d", primaryValue))
		}
		return Decision{Action: ActionSkip, Diagnostics: diags}
	}
	return Decision{Action: ActionSkip}
}

// UsesFeatureGLES applies the `uses-feature/glEsVersion` comparison
// policy (§4.2.A): the element is never appended, only compared. A
// library value above the primary's (or above the implicit default when
// the primary declares none) is a Warning, not an Error, unless
// allowOverride is set, in which case it is accepted silently.
func UsesFeatureGLES(primaryDoc *tree.Document, primaryGLES tree.NodeID, libDoc *tree.Document, libGLES tree.NodeID, allowOverride bool) Decision {
	primaryValue := numeric.DefaultGLESVersion
	usedDefault := true
	if primaryGLES != tree.InvalidNode {
		if lexical, ok := primaryDoc.GetAttribute(primaryGLES, androidns.URI, "glEsVersion"); ok {
			parsed, err := numeric.ParseGLESVersion(lexical)
			if err == nil {
				primaryValue = parsed
				usedDefault = false
			}
		}
	}

	libLexical, ok := libDoc.GetAttribute(libGLES, androidns.URI, "glEsVersion")
	if !ok {
		return Decision{Action: ActionSkip}
	}
	libValue, err := numeric.ParseGLESVersion(libLexical)
	if err != nil {
		return Decision{Action: ActionSkip, Diagnostics: []errors.Diagnostic{
			errors.NewDiagnostic(errors.Error, errors.CodeGLESSyntax, fileRef(libDoc, libGLES), nil, "%s", err.Error()),
		}}
	}
	if libValue < numeric.MinGLESVersion {
		return Decision{Action: ActionSkip, Diagnostics: []errors.Diagnostic{
			errors.NewDiagnostic(errors.Warning, errors.CodeGLESTooLow, fileRef(libDoc, libGLES), nil,
				"uses-feature:glEsVersion %s is smaller than 1.0", numeric.FormatGLESVersion(libValue)),
		}}
	}
	if libValue > primaryValue {
		if allowOverride {
			return Decision{Action: ActionSkip}
		}
		var diags []errors.Diagnostic
		if usedDefault {
			diags = append(diags, errors.NewDiagnostic(errors.Warning, errors.CodeGLESDefaultAssumed, fileRef(libDoc, libGLES), nil,
				"uses-feature:glEsVersion %s exceeds the assumed default %s (primary declares none)",
				numeric.FormatGLESVersion(libValue), numeric.FormatGLESVersion(primaryValue)))
		} else {
			diags = append(diags, errors.NewDiagnostic(errors.Warning, errors.CodeGLESTooLow, fileRef(primaryDoc, primaryGLES), fileRef(libDoc, libGLES),
				"uses-feature:glEsVersion %s in library exceeds primary's %s",
				numeric.FormatGLESVersion(libValue), numeric.FormatGLESVersion(primaryValue)))
		}
		return Decision{Action: ActionSkip, Diagnostics: diags}
	}
	return Decision{Action: ActionSkip}
}

// KeyedUnion applies the simple "union by key, skip if already present"
// policy used by uses-feature[@name] and uses-permission (§4.2.A).
func KeyedUnion(primaryMatch tree.NodeID) Decision {
	if primaryMatch == tree.InvalidNode {
		return Decision{Action: ActionAppend}
	}
	return Decision{Action: ActionSkip}
}

// Package merge implements the merge engine entry point (§4.1): walking
// each library tree, applying the element-kind policies (§4.2) against the
// primary tree, and recording diagnostics in deterministic order.
//
// Grounded on the teacher's top-level compile driver
// (schemaset_compile.go), adapted from "compile N schema documents into one
// validated set, reporting errors as you go" to "fold N library manifests
// into one primary tree, reporting diagnostics as you go".
package merge

import (
	"fmt"

	"github.com/jacoelho/manifestmerger/errors"
	"github.com/jacoelho/manifestmerger/internal/manifest/androidns"
	"github.com/jacoelho/manifestmerger/internal/manifest/policy"
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
)

// MarkerStyle selects how the engine marks the first element contributed
// by each library (§4.1, resolving the Open Question on marker spelling).
type MarkerStyle int

const (
	// MarkerStylePlainText emits a literal "# from @<library-id>" text node.
	MarkerStylePlainText MarkerStyle = iota
	// MarkerStyleComment emits an XML comment "<!-- from @<library-id> -->".
	MarkerStyleComment
)

// Options configures a single merge call. The zero value is the engine's
// default behavior: strict numeric limits (LenientNumericLimits false) and
// plain-text markers.
type Options struct {
	LenientNumericLimits   bool
	MarkerStyle            MarkerStyle
	AllowedFeatureOverride bool
}

// Library is one library tree contributing to a merge, paired with the
// stable identifier used in its contribution marker.
type Library struct {
	Doc *tree.Document
	ID  string
}

// applicationKindOrder is the fixed relative ordering (§4.1) new children
// are grouped into when appended under /manifest/application. meta-data
// and uses-library are not named in that fixed list, so their contributed
// elements are grouped after it, meta-data first and then uses-library,
// each in the order a library declares them.
var applicationKindOrder = append(append([]string{}, policy.ApplicationOrder...), "meta-data", "uses-library")

// Merge folds each library tree into primary in order, mutating primary in
// place and returning it alongside every diagnostic recorded, in emission
// order: library order, then document order within a library.
func Merge(primary *tree.Document, libraries []Library, opts Options) (*tree.Document, errors.Diagnostics) {
	var diags errors.Diagnostics

	primaryManifest := primary.Root()
	primaryApp := firstNamed(primary, primaryManifest, "application")

	for _, lib := range libraries {
		libManifest := lib.Doc.Root()
		if lib.Doc.Kind(libManifest) != tree.KindElement || lib.Doc.LocalName(libManifest) != "manifest" {
			diags = append(diags, errors.NewDiagnostic(errors.Error, errors.CodeRootNotManifest,
				&errors.FileRef{File: lib.Doc.FileID}, nil, "library root element is not <manifest>"))
			continue
		}

		diags = append(diags, topLevelPass(primary, primaryManifest, lib.Doc, libManifest, !opts.LenientNumericLimits, opts.AllowedFeatureOverride)...)

		if primaryApp == tree.InvalidNode {
			continue
		}
		libApp := firstNamed(lib.Doc, libManifest, "application")
		if libApp == tree.InvalidNode {
			continue
		}

		appDiags, buckets := applicationPass(primary, primaryApp, lib.Doc, libApp)
		diags = append(diags, appDiags...)
		insertContributions(primary, primaryApp, lib.Doc, libApp, lib.ID, buckets, opts.MarkerStyle)
	}

	return primary, diags
}

// firstNamed returns the first child element of parent with the given
// local name, or InvalidNode.
func firstNamed(doc *tree.Document, parent tree.NodeID, local string) tree.NodeID {
	matches := doc.ChildElementsNamed(parent, local)
	if len(matches) == 0 {
		return tree.InvalidNode
	}
	return matches[0]
}

// findByKey returns the child element of parent named local whose
// android:name attribute equals key, or InvalidNode.
func findByKey(doc *tree.Document, parent tree.NodeID, local, key string) tree.NodeID {
	for _, child := range doc.ChildElementsNamed(parent, local) {
		if name, ok := doc.GetAttribute(child, androidns.URI, "name"); ok && name == key {
			return child
		}
	}
	return tree.InvalidNode
}

// countByKey reports how many children of parent named local have the
// given android:name value.
func countByKey(doc *tree.Document, parent tree.NodeID, local, key string) int {
	n := 0
	for _, child := range doc.ChildElementsNamed(parent, local) {
		if name, ok := doc.GetAttribute(child, androidns.URI, "name"); ok && name == key {
			n++
		}
	}
	return n
}

func topLevelPass(primaryDoc *tree.Document, primaryManifest tree.NodeID, libDoc *tree.Document, libManifest tree.NodeID, strictNumericLimits, allowFeatureOverride bool) errors.Diagnostics {
	var diags errors.Diagnostics
	for _, child := range libDoc.ChildElements(libManifest) {
		local := libDoc.LocalName(child)
		switch local {
		case "uses-sdk":
			primarySDK := firstNamed(primaryDoc, primaryManifest, "uses-sdk")
			decision := policy.UsesSDK(primaryDoc, primarySDK, libDoc, child, strictNumericLimits)
			diags = append(diags, decision.Diagnostics...)

		case "uses-feature":
			if name, ok := libDoc.GetAttribute(child, androidns.URI, "name"); ok {
				if libDoc.HasAttribute(child, androidns.URI, "glEsVersion") {
					primaryGLES := findWithAttr(primaryDoc, primaryManifest, "uses-feature", "glEsVersion")
					diags = append(diags, policy.UsesFeatureGLES(primaryDoc, primaryGLES, libDoc, child, allowFeatureOverride).Diagnostics...)
				}
				match := findByKey(primaryDoc, primaryManifest, "uses-feature", name)
				decision := policy.KeyedUnion(match)
				diags = append(diags, decision.Diagnostics...)
				if decision.Action == policy.ActionAppend {
					appendSimple(primaryDoc, primaryManifest, libDoc, child, true)
				} else if libGLES, ok := libDoc.GetAttribute(child, androidns.URI, "glEsVersion"); ok {
					if primaryValue, _ := primaryDoc.GetAttribute(match, androidns.URI, "glEsVersion"); primaryValue != libGLES {
						diags = append(diags, errors.NewDiagnostic(errors.Warning, errors.CodeFeatureCollision,
							&errors.FileRef{File: primaryDoc.FileID, Line: primaryDoc.Line(match)}, &errors.FileRef{File: libDoc.FileID, Line: libDoc.Line(child)},
							"uses-feature %s declares glEsVersion '%s' in library but '%s' in primary; primary left unchanged", name, libGLES, primaryValue))
					}
				}
				continue
			}
			if _, ok := libDoc.GetAttribute(child, androidns.URI, "glEsVersion"); ok {
				primaryGLES := findWithAttr(primaryDoc, primaryManifest, "uses-feature", "glEsVersion")
				decision := policy.UsesFeatureGLES(primaryDoc, primaryGLES, libDoc, child, allowFeatureOverride)
				diags = append(diags, decision.Diagnostics...)
			}

		case "uses-permission":
			name, _ := libDoc.GetAttribute(child, androidns.URI, "name")
			match := findByKey(primaryDoc, primaryManifest, "uses-permission", name)
			decision := policy.KeyedUnion(match)
			diags = append(diags, decision.Diagnostics...)
			if decision.Action == policy.ActionAppend {
				appendSimple(primaryDoc, primaryManifest, libDoc, child, false)
			}

		default:
			// Recognized-but-unmerged kinds and anything else are ignored
			// silently (§4.1 rule 4, §4.2.A ignored row).
		}
	}
	return diags
}

// findWithAttr returns the first child element of parent named local that
// carries the given namespaced attribute, regardless of its value.
func findWithAttr(doc *tree.Document, parent tree.NodeID, local, attrLocal string) tree.NodeID {
	for _, child := range doc.ChildElementsNamed(parent, local) {
		if doc.HasAttribute(child, androidns.URI, attrLocal) {
			return child
		}
	}
	return tree.InvalidNode
}

// appendSimple clones a top-level child directly onto primaryManifest with
// no kind-ordering discipline (top-level elements are not grouped or
// marker-prefixed; only application-level contributions are, per §4.1).
// When stripGLES is true, a glEsVersion attribute on the clone is removed,
// per §4.2.A's rule for named uses-feature elements.
func appendSimple(primaryDoc *tree.Document, primaryParent tree.NodeID, libDoc *tree.Document, libChild tree.NodeID, stripGLES bool) {
	clone := tree.CloneInto(primaryDoc, libDoc, libChild)
	if stripGLES {
		primaryDoc.RemoveAttribute(clone, androidns.URI, "glEsVersion")
	}
	primaryDoc.AppendChild(primaryParent, clone)
}

// contribution is one library element queued for insertion under
// /manifest/application, grouped by kind for ordered insertion.
type contribution struct {
	libChild tree.NodeID
}

func applicationPass(primaryDoc *tree.Document, primaryApp tree.NodeID, libDoc *tree.Document, libApp tree.NodeID) (errors.Diagnostics, map[string][]contribution) {
	var diags errors.Diagnostics
	buckets := make(map[string][]contribution)

	for _, child := range libDoc.ChildElements(libApp) {
		local := libDoc.LocalName(child)
		name, _ := libDoc.GetAttribute(child, androidns.URI, "name")

		switch {
		case policy.EqualityKinds[local]:
			match := findByKey(primaryDoc, primaryApp, local, name)
			decision := policy.EqualityCollision(primaryDoc, match, libDoc, child)
			diags = append(diags, decision.Diagnostics...)
			if decision.Action == policy.ActionAppend {
				buckets[local] = append(buckets[local], contribution{libChild: child})
			}

		case local == "uses-library":
			match := findByKey(primaryDoc, primaryApp, local, name)
			duplicate := countByKey(primaryDoc, primaryApp, local, name) > 1
			decision := policy.UsesLibrary(primaryDoc, match, libDoc, child, duplicate)
			diags = append(diags, decision.Diagnostics...)
			switch decision.Action {
			case policy.ActionAppend:
				buckets[local] = append(buckets[local], contribution{libChild: child})
			case policy.ActionModify:
				for _, dup := range primaryDoc.ChildElementsNamed(primaryApp, local) {
					if key, ok := primaryDoc.GetAttribute(dup, androidns.URI, "name"); ok && key == name {
						primaryDoc.SetAttribute(dup, decision.ModifyAttr.Namespace, decision.ModifyAttr.Local, decision.ModifyValue)
					}
				}
			}

		default:
			// Unrecognized application-level children are ignored silently.
		}
	}
	return diags, buckets
}

// insertContributions clones every queued contribution from this library
// into primaryApp, grouped by the fixed kind ordering and preceded by a
// single library-identity marker before the first inserted element.
func insertContributions(primaryDoc *tree.Document, primaryApp tree.NodeID, libDoc *tree.Document, libApp tree.NodeID, libraryID string, buckets map[string][]contribution, style MarkerStyle) {
	markerInserted := false
	for _, kind := range applicationKindOrder {
		for _, c := range buckets[kind] {
			if !markerInserted {
				insertMarker(primaryDoc, primaryApp, libraryID, style)
				markerInserted = true
			}
			trivia := leadingTrivia(libDoc, libApp, c.libChild)
			for _, t := range trivia {
				primaryDoc.AppendChild(primaryApp, tree.CloneInto(primaryDoc, libDoc, t))
			}
			primaryDoc.AppendChild(primaryApp, tree.CloneInto(primaryDoc, libDoc, c.libChild))
		}
	}
}

func insertMarker(doc *tree.Document, parent tree.NodeID, libraryID string, style MarkerStyle) {
	text := fmt.Sprintf("from @%s", libraryID)
	var marker tree.NodeID
	switch style {
	case MarkerStyleComment:
		marker = doc.NewComment(" "+text+" ", 0)
	default:
		marker = doc.NewText("# "+text, 0)
	}
	doc.AppendChild(parent, marker)
}

// leadingTrivia walks backward from child across any contiguous run of
// comment nodes and whitespace-only text nodes immediately preceding it in
// its parent's child list (§4.6), returning them in document order.
func leadingTrivia(doc *tree.Document, parent, child tree.NodeID) []tree.NodeID {
	siblings := doc.Children(parent)
	idx := doc.ChildIndex(parent, child)
	if idx <= 0 {
		return nil
	}
	start := idx
	for start > 0 {
		prev := siblings[start-1]
		if doc.Kind(prev) == tree.KindComment || (doc.Kind(prev) == tree.KindText && doc.IsWhitespaceText(prev)) {
			start--
			continue
		}
		break
	}
	return siblings[start:idx]
}

// Package equality implements semantic equality over manifest element
// subtrees (§4.3): deep comparison that ignores comments and
// whitespace-only text, treats attributes as an unordered set, and compares
// element children in order.
//
// Grounded on the teacher's declaration-equivalence comparators
// (internal/loadmerge/merge_equivalence.go: elementDeclEquivalent,
// identityConstraintsEquivalent), adapted from comparing typed Go structs
// field-by-field to comparing untyped XML subtrees attribute-by-attribute
// and child-by-child.
package equality

import (
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
)

// significantChildren returns id's children with comments and
// whitespace-only text filtered out, per §4.3 rule 3.
func significantChildren(doc *tree.Document, id tree.NodeID) []tree.NodeID {
	children := doc.Children(id)
	out := make([]tree.NodeID, 0, len(children))
	for _, c := range children {
		switch doc.Kind(c) {
		case tree.KindComment:
			continue
		case tree.KindText:
			if doc.IsWhitespaceText(c) {
				continue
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// Equal reports whether the subtrees rooted at a (in docA) and b (in docB)
// are semantically equal per §4.3. docA and docB may be the same document
// or different documents (a library tree compared against the primary).
func Equal(docA *tree.Document, a tree.NodeID, docB *tree.Document, b tree.NodeID) bool {
	kindA, kindB := docA.Kind(a), docB.Kind(b)
	if kindA != kindB {
		return false
	}
	switch kindA {
	case tree.KindText:
		return docA.Text(a) == docB.Text(b)
	case tree.KindComment:
		// Comments never participate in equality (§4.3 rule 3); reaching
		// this point means a caller passed one directly rather than via
		// significantChildren, which already filters them out.
		return true
	default:
		return elementsEqual(docA, a, docB, b)
	}
}

func elementsEqual(docA *tree.Document, a tree.NodeID, docB *tree.Document, b tree.NodeID) bool {
	if docA.Name(a) != docB.Name(b) {
		return false
	}
	if !attributesEqual(docA.Attributes(a), docB.Attributes(b)) {
		return false
	}
	childrenA := significantChildren(docA, a)
	childrenB := significantChildren(docB, b)
	if len(childrenA) != len(childrenB) {
		return false
	}
	for i := range childrenA {
		if !Equal(docA, childrenA[i], docB, childrenB[i]) {
			return false
		}
	}
	return true
}

// attributesEqual compares two attribute lists as unordered sets keyed by
// (namespace, local name), per §4.3 rule 2.
func attributesEqual(a, b []tree.Attr) bool {
	if len(a) != len(b) {
		return false
	}
	indexB := make(map[tree.QName]string, len(b))
	for _, attr := range b {
		indexB[tree.QName{Namespace: attr.Namespace, Local: attr.Local}] = attr.Value
	}
	for _, attr := range a {
		value, ok := indexB[tree.QName{Namespace: attr.Namespace, Local: attr.Local}]
		if !ok || value != attr.Value {
			return false
		}
	}
	return true
}

// FirstDivergence locates the first point at which childrenA and childrenB
// (already filtered to significant children) differ, returning the index
// and whether each side has an element there. It does not recurse into
// further divergences — only the first is reported, per §4.4.
func FirstDivergence(docA *tree.Document, childrenA []tree.NodeID, docB *tree.Document, childrenB []tree.NodeID) (index int, hasA, hasB bool) {
	n := max(len(childrenA), len(childrenB))
	for i := 0; i < n; i++ {
		hasA = i < len(childrenA)
		hasB = i < len(childrenB)
		if !hasA || !hasB {
			return i, hasA, hasB
		}
		if !Equal(docA, childrenA[i], docB, childrenB[i]) {
			return i, true, true
		}
	}
	return n, false, false
}

// SignificantChildren exposes significantChildren for callers that need the
// filtered, ordered child list outside this package (the attribute-diff
// reporter indexes it at the first structural divergence).
func SignificantChildren(doc *tree.Document, id tree.NodeID) []tree.NodeID {
	return significantChildren(doc, id)
}

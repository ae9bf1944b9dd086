// Package diff renders the two-sided attribute and child diagnostics the
// merge engine attaches to an incompatible-element error (§4.4): a header
// line naming the element, then an attribute block and a child block, each
// using -- for what the primary side has and ++ for what the library side
// has.
//
// Grounded on the teacher's assertion-diff helper
// (internal/testing/harness.Diff), adapted from comparing two Go struct
// values line-by-line to comparing two XML element subtrees attribute-by-
// attribute and child-by-child.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jacoelho/manifestmerger/internal/manifest/androidns"
	"github.com/jacoelho/manifestmerger/internal/manifest/equality"
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
)

// endReached is the placeholder printed for the side whose child list has
// no element at the diverging position.
const endReached = "(end reached)"

// Lines renders the full diff block for a primary/library element pair that
// the merge engine has judged incompatible: a header line, then an
// attribute block, then a child block (only if the divergence is
// structural rather than purely attribute-level).
func Lines(primaryDoc *tree.Document, primary tree.NodeID, libraryDoc *tree.Document, library tree.NodeID) []string {
	lines := []string{header(primaryDoc, primary)}
	lines = append(lines, attributeLines(primaryDoc, primary, libraryDoc, library)...)
	lines = append(lines, childLines(primaryDoc, primary, libraryDoc, library)...)
	return lines
}

// header renders "<tag android:name=value>" from the primary element's key
// attribute, or "<tag>" when the primary element has none; the library
// element is not consulted.
func header(doc *tree.Document, id tree.NodeID) string {
	name, ok := doc.GetAttribute(id, androidns.URI, "name")
	if !ok {
		return fmt.Sprintf("<%s>", doc.LocalName(id))
	}
	return fmt.Sprintf("<%s android:name=%s>", doc.LocalName(id), name)
}

// attributeLines renders one line per attribute local name in the sorted
// union of both sides' attribute sets (§4.4 rule 2): unmarked when both
// sides agree, -- when the primary's value differs or is the only side
// present, ++ for the library's.
func attributeLines(docA *tree.Document, a tree.NodeID, docB *tree.Document, b tree.NodeID) []string {
	attrsA := docA.Attributes(a)
	attrsB := docB.Attributes(b)

	type entry struct {
		ns, local      string
		valueA, valueB string
		hasA, hasB     bool
	}
	byKey := make(map[tree.QName]*entry)
	var order []tree.QName
	for _, attr := range attrsA {
		key := tree.QName{Namespace: attr.Namespace, Local: attr.Local}
		byKey[key] = &entry{ns: attr.Namespace, local: attr.Local, valueA: attr.Value, hasA: true}
		order = append(order, key)
	}
	for _, attr := range attrsB {
		key := tree.QName{Namespace: attr.Namespace, Local: attr.Local}
		e, ok := byKey[key]
		if !ok {
			e = &entry{ns: attr.Namespace, local: attr.Local}
			byKey[key] = e
			order = append(order, key)
		}
		e.valueB = attr.Value
		e.hasB = true
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Local < order[j].Local })

	var lines []string
	for _, key := range order {
		e := byKey[key]
		qualified := qualifiedAttr(e.ns, e.local)
		switch {
		case e.hasA && e.hasB && e.valueA == e.valueB:
			lines = append(lines, fmt.Sprintf("      %s = %s", qualified, e.valueA))
		case e.hasA && e.hasB:
			lines = append(lines, fmt.Sprintf("--    %s = %s", qualified, e.valueA))
			lines = append(lines, fmt.Sprintf("++    %s = %s", qualified, e.valueB))
		case e.hasA:
			lines = append(lines, fmt.Sprintf("--    %s = %s", qualified, e.valueA))
		default:
			lines = append(lines, fmt.Sprintf("++    %s = %s", qualified, e.valueB))
		}
	}
	return lines
}

func qualifiedAttr(namespace, local string) string {
	if namespace == androidns.URI {
		return "@" + androidns.Prefix + ":" + local
	}
	return "@" + local
}

// childLines reports the first point at which the two sides' significant
// child lists diverge (§4.4 rule 3): -- for what the primary has at that
// position (or "(end reached)" if the primary's list ends there) and ++ for
// the library's. Only the first divergence is reported; a caller that wants
// every divergence recurses with the diverging child pair.
func childLines(docA *tree.Document, a tree.NodeID, docB *tree.Document, b tree.NodeID) []string {
	childrenA := equality.SignificantChildren(docA, a)
	childrenB := equality.SignificantChildren(docB, b)
	idx, hasA, hasB := equality.FirstDivergence(docA, childrenA, docB, childrenB)
	if !hasA && !hasB {
		return nil
	}
	return []string{
		"--  " + describeSide(docA, childrenA, idx, hasA),
		"++  " + describeSide(docB, childrenB, idx, hasB),
	}
}

func describeSide(doc *tree.Document, children []tree.NodeID, idx int, has bool) string {
	if !has {
		return endReached
	}
	return describeChild(doc, children[idx])
}

// describeChild renders a single child node for a diff line: elements as
// "<tag>", text/comment nodes collapsed to a single-line preview.
func describeChild(doc *tree.Document, id tree.NodeID) string {
	switch doc.Kind(id) {
	case tree.KindElement:
		return fmt.Sprintf("<%s>", doc.LocalName(id))
	case tree.KindComment:
		return "<!--" + strings.TrimSpace(doc.Text(id)) + "-->"
	default:
		return strings.TrimSpace(doc.Text(id))
	}
}

package tree

// CloneInto deep-copies the subtree rooted at id (from src) into dst,
// returning the id of the copy in dst. Source line numbers are preserved so
// that diagnostics can still point back at the library's original location
// even after the subtree has migrated into the primary document.
//
// Grounded on the teacher's schema-merge clone (internal/loadmerge:
// CloneSchemaDeep / CloneSchemaForMerge), adapted from cloning a
// declaration graph across maps to cloning a node subtree across arenas.
func CloneInto(dst *Document, src *Document, id NodeID) NodeID {
	if !src.validNode(id) {
		return InvalidNode
	}
	n := src.nodes[id]
	var clone NodeID
	switch n.kind {
	case KindElement:
		clone = dst.NewElement(n.namespace, n.local, n.line)
		for _, a := range n.attrs {
			dst.AddAttribute(clone, a)
		}
	case KindComment:
		clone = dst.NewComment(n.text, n.line)
	default:
		clone = dst.NewText(n.text, n.line)
	}
	for _, child := range n.children {
		childClone := CloneInto(dst, src, child)
		if childClone != InvalidNode {
			dst.AppendChild(clone, childClone)
		}
	}
	return clone
}

// Package tree is the in-memory representation of a manifest document: an
// arena-backed Document of elements, comments, and text nodes.
//
// The node/attribute/children layout is adapted from the teacher's
// read-only validation arena (internal/xsdxml.Document): a single
// NodeID-indexed Document with flat nodes/attrs/children slices, the same
// InvalidNode sentinel, and the same validNode guard. Unlike that arena,
// this one keeps comments and whitespace-only text as first-class nodes
// (the validation arena discards both) and supports in-place mutation,
// because the merge engine is the first consumer in this lineage that
// needs to grow and rewrite a parsed tree rather than only read it.
package tree

// NodeID identifies a node in the document arena.
type NodeID int

// InvalidNode represents an invalid node reference.
const InvalidNode NodeID = -1

// Kind discriminates the three node shapes a manifest document can contain.
type Kind int

const (
	// KindElement is a tagged element with attributes and children.
	KindElement Kind = iota
	// KindComment is an XML comment; its Text holds the comment body.
	KindComment
	// KindText is character data, which may be whitespace-only.
	KindText
)

// Attr is one attribute of an Element node, in source order.
type Attr struct {
	Namespace string
	Local     string
	Value     string
	Line      int

	// Quote is the quote byte ('"' or '\'') the attribute was written
	// with in its source document. Zero means "not read from source";
	// the writer then falls back to '"', its long-standing default for
	// attributes built programmatically (e.g. UsesLibrary's required
	// rewrite).
	Quote byte
	// LeadingSpace is the raw whitespace that preceded this attribute in
	// its source document (a single space, or a newline plus indentation
	// for an attribute list split across lines). Empty means "not read
	// from source"; the writer then falls back to a single space.
	LeadingSpace string
}

// QName identifies an attribute or element by namespace URI and local name.
type QName struct {
	Namespace string
	Local     string
}

type node struct {
	kind      Kind
	namespace string
	local     string
	text      string
	attrs     []Attr
	children  []NodeID
	parent    NodeID
	line      int
}

// Document is a compact arena for a parsed, mutable manifest tree.
type Document struct {
	nodes []node
	root  NodeID
	// FileID identifies the source file this document was parsed from,
	// used to build FileRef values in diagnostics.
	FileID string
}

// NewDocument returns an empty document with no root.
func NewDocument(fileID string) *Document {
	return &Document{root: InvalidNode, FileID: fileID}
}

func (d *Document) validNode(id NodeID) bool {
	return d != nil && id >= 0 && int(id) < len(d.nodes)
}

// Root returns the document's root element, or InvalidNode if none was set.
func (d *Document) Root() NodeID {
	if d == nil {
		return InvalidNode
	}
	return d.root
}

// SetRoot designates id as the document root.
func (d *Document) SetRoot(id NodeID) {
	d.root = id
}

// NewElement allocates a new, childless element node and returns its id.
// The caller is responsible for attaching it via AppendChild or InsertChildrenBefore
// unless it is the document root.
func (d *Document) NewElement(namespace, local string, line int) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{kind: KindElement, namespace: namespace, local: local, line: line, parent: InvalidNode})
	return id
}

// NewComment allocates a new comment node holding text verbatim.
func (d *Document) NewComment(text string, line int) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{kind: KindComment, text: text, line: line, parent: InvalidNode})
	return id
}

// NewText allocates a new text node holding content verbatim.
func (d *Document) NewText(text string, line int) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{kind: KindText, text: text, line: line, parent: InvalidNode})
	return id
}

// Kind returns the node kind.
func (d *Document) Kind(id NodeID) Kind {
	if !d.validNode(id) {
		return KindText
	}
	return d.nodes[id].kind
}

// Line returns the source line the node started on, or 0 if unknown.
func (d *Document) Line(id NodeID) int {
	if !d.validNode(id) {
		return 0
	}
	return d.nodes[id].line
}

// Parent returns the parent node of id, or InvalidNode for the root or an
// unattached node.
func (d *Document) Parent(id NodeID) NodeID {
	if !d.validNode(id) {
		return InvalidNode
	}
	return d.nodes[id].parent
}

// NamespaceURI returns the namespace URI of an element node.
func (d *Document) NamespaceURI(id NodeID) string {
	if !d.validNode(id) {
		return ""
	}
	return d.nodes[id].namespace
}

// LocalName returns the local (tag) name of an element node.
func (d *Document) LocalName(id NodeID) string {
	if !d.validNode(id) {
		return ""
	}
	return d.nodes[id].local
}

// Name returns the (namespace, local) pair identifying an element.
func (d *Document) Name(id NodeID) QName {
	return QName{Namespace: d.NamespaceURI(id), Local: d.LocalName(id)}
}

// Text returns the verbatim text of a comment or text node.
func (d *Document) Text(id NodeID) string {
	if !d.validNode(id) {
		return ""
	}
	return d.nodes[id].text
}

// Attributes returns a read-only view of an element's attributes in source
// order. The returned slice aliases the document arena; callers must not
// retain it across a mutation of id's attributes.
func (d *Document) Attributes(id NodeID) []Attr {
	if !d.validNode(id) {
		return nil
	}
	return d.nodes[id].attrs
}

// Children returns a read-only view of a node's children in document order.
func (d *Document) Children(id NodeID) []NodeID {
	if !d.validNode(id) {
		return nil
	}
	return d.nodes[id].children
}

func (d *Document) findAttrIndex(id NodeID, namespace, local string) int {
	if !d.validNode(id) {
		return -1
	}
	for i, a := range d.nodes[id].attrs {
		if a.Namespace == namespace && a.Local == local {
			return i
		}
	}
	return -1
}

// GetAttribute returns the value of a namespaced attribute and whether it
// was present.
func (d *Document) GetAttribute(id NodeID, namespace, local string) (string, bool) {
	idx := d.findAttrIndex(id, namespace, local)
	if idx < 0 {
		return "", false
	}
	return d.nodes[id].attrs[idx].Value, true
}

// HasAttribute reports whether the element has a namespaced attribute.
func (d *Document) HasAttribute(id NodeID, namespace, local string) bool {
	return d.findAttrIndex(id, namespace, local) >= 0
}

// AddAttribute appends an attribute to an element's attribute list. It does
// not check for duplicates; callers that need set semantics should check
// HasAttribute first.
func (d *Document) AddAttribute(id NodeID, attr Attr) {
	if !d.validNode(id) {
		return
	}
	d.nodes[id].attrs = append(d.nodes[id].attrs, attr)
}

// SetAttribute overwrites the value of an existing namespaced attribute,
// preserving its source line and position. It is a no-op if the attribute
// is absent; use AddAttribute to introduce a new one.
func (d *Document) SetAttribute(id NodeID, namespace, local, value string) bool {
	idx := d.findAttrIndex(id, namespace, local)
	if idx < 0 {
		return false
	}
	d.nodes[id].attrs[idx].Value = value
	return true
}

// RemoveAttribute deletes a namespaced attribute from an element, if
// present. It is a no-op otherwise.
func (d *Document) RemoveAttribute(id NodeID, namespace, local string) {
	idx := d.findAttrIndex(id, namespace, local)
	if idx < 0 {
		return
	}
	attrs := d.nodes[id].attrs
	d.nodes[id].attrs = append(attrs[:idx], attrs[idx+1:]...)
}

// AppendChild attaches child as the last child of parent.
func (d *Document) AppendChild(parent, child NodeID) {
	if !d.validNode(parent) || !d.validNode(child) {
		return
	}
	d.nodes[parent].children = append(d.nodes[parent].children, child)
	d.nodes[child].parent = parent
}

// InsertChildrenBefore inserts newChildren into parent's child list
// immediately before the child at position index (0 <= index <=
// len(children)). Passing index == len(children) appends at the end.
func (d *Document) InsertChildrenBefore(parent NodeID, index int, newChildren ...NodeID) {
	if !d.validNode(parent) || len(newChildren) == 0 {
		return
	}
	existing := d.nodes[parent].children
	if index < 0 {
		index = 0
	}
	if index > len(existing) {
		index = len(existing)
	}
	merged := make([]NodeID, 0, len(existing)+len(newChildren))
	merged = append(merged, existing[:index]...)
	merged = append(merged, newChildren...)
	merged = append(merged, existing[index:]...)
	d.nodes[parent].children = merged
	for _, c := range newChildren {
		if d.validNode(c) {
			d.nodes[c].parent = parent
		}
	}
}

// ChildIndex returns the position of child within parent's children, or -1.
func (d *Document) ChildIndex(parent, child NodeID) int {
	if !d.validNode(parent) {
		return -1
	}
	for i, c := range d.nodes[parent].children {
		if c == child {
			return i
		}
	}
	return -1
}

// ChildElements returns the child NodeIDs of id that are elements, in
// document order, skipping comments and text nodes.
func (d *Document) ChildElements(id NodeID) []NodeID {
	children := d.Children(id)
	out := make([]NodeID, 0, len(children))
	for _, c := range children {
		if d.Kind(c) == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// ChildElementsNamed returns id's child elements whose local name matches.
// The android manifest element vocabulary is unqualified (no namespace),
// so elements are matched on local name alone.
func (d *Document) ChildElementsNamed(id NodeID, local string) []NodeID {
	children := d.Children(id)
	out := make([]NodeID, 0, len(children))
	for _, c := range children {
		if d.Kind(c) == KindElement && d.LocalName(c) == local {
			out = append(out, c)
		}
	}
	return out
}

// IsWhitespaceText reports whether id is a text node whose content is
// entirely XML whitespace (space, tab, CR, LF).
func (d *Document) IsWhitespaceText(id NodeID) bool {
	if !d.validNode(id) || d.nodes[id].kind != KindText {
		return false
	}
	for _, r := range d.nodes[id].text {
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return false
		}
	}
	return true
}

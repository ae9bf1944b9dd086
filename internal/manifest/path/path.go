// Package path computes the canonical textual path of an element, used in
// every diagnostic the merge engine emits.
package path

import (
	"strings"

	"github.com/jacoelho/manifestmerger/internal/manifest/androidns"
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
)

// KeyAttribute returns the local name of the attribute that identifies an
// element among its siblings of the same kind, and whether this element
// kind is keyed at all. Almost every merged kind keys on android:name;
// uses-sdk is a singleton and has no key.
func KeyAttribute(local string) (string, bool) {
	switch local {
	case "activity", "activity-alias", "service", "receiver", "provider",
		"uses-library", "meta-data", "uses-feature", "uses-permission":
		return "name", true
	default:
		return "", false
	}
}

// segment is one (tag, optional key value) step of a Path.
type segment struct {
	tag string
	key string
}

// Path is the ordered sequence of ancestor segments identifying an element,
// e.g. /manifest/application/activity[@name=com.example.X].
type Path struct {
	segments []segment
}

// String renders the path in the canonical textual form.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		b.WriteString(s.tag)
		if s.key != "" {
			b.WriteString("[@name=")
			b.WriteString(s.key)
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Of computes the canonical path of id by walking up to the document root.
func Of(doc *tree.Document, id tree.NodeID) Path {
	var segs []segment
	for cur := id; cur != tree.InvalidNode; cur = doc.Parent(cur) {
		if doc.Kind(cur) != tree.KindElement {
			continue
		}
		local := doc.LocalName(cur)
		seg := segment{tag: local}
		if keyLocal, ok := KeyAttribute(local); ok {
			if value, present := doc.GetAttribute(cur, androidns.URI, keyLocal); present {
				seg.key = value
			}
		}
		segs = append([]segment{seg}, segs...)
	}
	return Path{segments: segs}
}

// Package xmlwriter serializes a tree.Document back to XML text (§4.7),
// the symmetric counterpart to xmlreader. Attribute order, attribute
// quoting, the whitespace before each attribute, and the text and comments
// inside the root element are replayed as stored. Only the root element is
// written: an XML declaration and any comments or whitespace outside the
// root are not reproduced, whitespace before a start tag's closing '>' or
// '/>' is not kept, and an element with no children is written as "<tag/>".
package xmlwriter

import (
	"bufio"
	"io"
	"strings"

	"github.com/jacoelho/manifestmerger/internal/manifest/androidns"
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
)

// Write serializes doc's root element and all descendants to w.
func Write(w io.Writer, doc *tree.Document) error {
	bw := bufio.NewWriter(w)
	if err := writeNode(bw, doc, doc.Root()); err != nil {
		return err
	}
	return bw.Flush()
}

func writeNode(w *bufio.Writer, doc *tree.Document, id tree.NodeID) error {
	switch doc.Kind(id) {
	case tree.KindComment:
		_, err := w.WriteString("<!--" + doc.Text(id) + "-->")
		return err
	case tree.KindText:
		_, err := w.WriteString(escapeText(doc.Text(id)))
		return err
	default:
		return writeElement(w, doc, id)
	}
}

func writeElement(w *bufio.Writer, doc *tree.Document, id tree.NodeID) error {
	local := doc.LocalName(id)
	if _, err := w.WriteString("<" + local); err != nil {
		return err
	}
	for _, attr := range doc.Attributes(id) {
		leading := attr.LeadingSpace
		if leading == "" {
			leading = " "
		}
		quote := attr.Quote
		if quote == 0 {
			quote = '"'
		}
		q := string(quote)
		if _, err := w.WriteString(leading + qualifiedName(attr) + "=" + q + escapeAttr(attr.Value, quote) + q); err != nil {
			return err
		}
	}
	children := doc.Children(id)
	if len(children) == 0 {
		_, err := w.WriteString("/>")
		return err
	}
	if _, err := w.WriteString(">"); err != nil {
		return err
	}
	for _, child := range children {
		if err := writeNode(w, doc, child); err != nil {
			return err
		}
	}
	_, err := w.WriteString("</" + local + ">")
	return err
}

func qualifiedName(attr tree.Attr) string {
	if attr.Namespace == androidns.URI {
		return androidns.Prefix + ":" + attr.Local
	}
	return attr.Local
}

// escapeAttr escapes s for use inside an attribute value delimited by quote,
// escaping only the quote character actually in play so a single-quoted
// attribute containing a literal '"' is not needlessly mangled.
func escapeAttr(s string, quote byte) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			if quote == '"' {
				b.WriteString("&quot;")
			} else {
				b.WriteByte('"')
			}
		case '\'':
			if quote == '\'' {
				b.WriteString("&apos;")
			} else {
				b.WriteByte('\'')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeText(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}

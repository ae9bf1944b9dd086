package manifestmerger

import "github.com/jacoelho/manifestmerger/internal/manifest/xmlreader"

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved(fallback int) int {
	if !o.set {
		return fallback
	}
	return o.value
}

// ReadLimits bounds the shape of documents the engine will parse, the way
// RuntimeOptions bounds instance XML parsing in a schema validator: each
// field is optional, and an unset field falls back to
// xmlreader.DefaultLimits().
type ReadLimits struct {
	maxDocumentBytes intOption
	maxDepth         intOption
	maxAttrsPerTag   intOption
	maxElements      intOption
}

// NewReadLimits returns a default, valid read-limits value.
func NewReadLimits() ReadLimits {
	return ReadLimits{}
}

// Validate validates the read-limits value. Every field accepts any int;
// this exists for symmetry with MergeOptions.Validate and for future
// fields that do gain cross-field constraints.
func (o ReadLimits) Validate() error {
	return nil
}

// WithMaxDocumentBytes bounds the raw size of a manifest file the engine
// will parse (0 removes the bound).
func (o ReadLimits) WithMaxDocumentBytes(value int) ReadLimits {
	o.maxDocumentBytes = intOption{value: value, set: true}
	return o
}

// WithMaxDepth bounds element nesting depth (0 removes the bound).
func (o ReadLimits) WithMaxDepth(value int) ReadLimits {
	o.maxDepth = intOption{value: value, set: true}
	return o
}

// WithMaxAttrsPerTag bounds attributes on a single start tag (0 removes
// the bound).
func (o ReadLimits) WithMaxAttrsPerTag(value int) ReadLimits {
	o.maxAttrsPerTag = intOption{value: value, set: true}
	return o
}

// WithMaxElements bounds the total element count in a document (0 removes
// the bound).
func (o ReadLimits) WithMaxElements(value int) ReadLimits {
	o.maxElements = intOption{value: value, set: true}
	return o
}

func (o ReadLimits) resolve() xmlreader.Limits {
	d := xmlreader.DefaultLimits()
	return xmlreader.Limits{
		MaxDocumentBytes: o.maxDocumentBytes.resolved(d.MaxDocumentBytes),
		MaxDepth:         o.maxDepth.resolved(d.MaxDepth),
		MaxAttrsPerTag:   o.maxAttrsPerTag.resolved(d.MaxAttrsPerTag),
		MaxElements:      o.maxElements.resolved(d.MaxElements),
	}
}

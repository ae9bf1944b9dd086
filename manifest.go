// Package manifestmerger merges Android library manifests into a primary
// manifest (§1): the top-level and application-level policies in
// internal/manifest/policy, driven by internal/manifest/merge, over trees
// read and written by internal/manifest/xmlreader and
// internal/manifest/xmlwriter.
package manifestmerger

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jacoelho/manifestmerger/errors"
	"github.com/jacoelho/manifestmerger/internal/manifest/merge"
	"github.com/jacoelho/manifestmerger/internal/manifest/tree"
	"github.com/jacoelho/manifestmerger/internal/manifest/xmlreader"
	"github.com/jacoelho/manifestmerger/internal/manifest/xmlwriter"
)

// Manifest wraps a parsed primary manifest tree.
type Manifest struct {
	doc *tree.Document
}

// LoadManifest parses r as the primary manifest. fileID identifies it in
// diagnostics.
func LoadManifest(r io.Reader, fileID string) (*Manifest, error) {
	return loadManifest(r, fileID, NewReadLimits())
}

// LoadManifestWithLimits is LoadManifest with explicit ReadLimits.
func LoadManifestWithLimits(r io.Reader, fileID string, limits ReadLimits) (*Manifest, error) {
	return loadManifest(r, fileID, limits)
}

func loadManifest(r io.Reader, fileID string, limits ReadLimits) (*Manifest, error) {
	doc, err := xmlreader.ReadWithLimits(r, fileID, limits.resolve())
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", fileID, err)
	}
	return &Manifest{doc: doc}, nil
}

// LoadManifestFS loads the primary manifest from a filesystem location.
func LoadManifestFS(fsys fs.FS, location string) (*Manifest, error) {
	f, err := fsys.Open(location)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", location, err)
	}
	defer f.Close()
	return LoadManifest(f, location)
}

// LoadManifestFile loads the primary manifest from a file path.
func LoadManifestFile(path string) (*Manifest, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	return LoadManifestFS(os.DirFS(dir), base)
}

// Library wraps a parsed library manifest tree, tagged with the stable
// identifier its contributions are marked with (§4.1, §4.6).
type Library struct {
	ID  string
	doc *tree.Document
}

// LoadLibrary parses r as a library manifest identified by id.
func LoadLibrary(r io.Reader, id string) (Library, error) {
	doc, err := xmlreader.Read(r, id)
	if err != nil {
		return Library{}, fmt.Errorf("load library %s: %w", id, err)
	}
	return Library{ID: id, doc: doc}, nil
}

// LoadLibraryFS loads a library manifest from a filesystem location,
// tagged with the given library id.
func LoadLibraryFS(fsys fs.FS, location, id string) (Library, error) {
	f, err := fsys.Open(location)
	if err != nil {
		return Library{}, fmt.Errorf("load library %s: %w", id, err)
	}
	defer f.Close()
	return LoadLibrary(f, id)
}

// Result is the merged primary manifest tree.
type Result struct {
	doc *tree.Document
}

// WriteTo serializes the merged manifest to w.
func (r *Result) WriteTo(w io.Writer) error {
	return xmlwriter.Write(w, r.doc)
}

// Bytes serializes the merged manifest and returns it.
func (r *Result) Bytes() ([]byte, error) {
	var b bytes.Buffer
	if err := r.WriteTo(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Merge folds each library into m in order (§4.1), returning the merged
// result and every diagnostic recorded, in emission order.
func (m *Manifest) Merge(libraries []Library, opts MergeOptions) (*Result, errors.Diagnostics) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Diagnostics{
			errors.NewDiagnostic(errors.Error, errors.CodeInvalidOptions, nil, nil, "%s", err.Error()),
		}
	}

	libs := make([]merge.Library, len(libraries))
	for i, l := range libraries {
		libs[i] = merge.Library{Doc: l.doc, ID: l.ID}
	}

	doc, diags := merge.Merge(m.doc, libs, merge.Options{
		LenientNumericLimits:   opts.lenientNumericLimits,
		MarkerStyle:            opts.markerStyle,
		AllowedFeatureOverride: opts.allowedFeatureOverride,
	})
	return &Result{doc: doc}, diags
}

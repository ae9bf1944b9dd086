package manifestmerger

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/jacoelho/manifestmerger/errors"
)

// MergerOption configures a Merger.
type MergerOption interface{ apply(*mergerConfig) }

type mergerConfig struct {
	fsys      fs.FS
	resolver  LibraryResolver
	readLimit ReadLimits
	merge     MergeOptions
}

type mergerOptionFunc func(*mergerConfig)

func (f mergerOptionFunc) apply(cfg *mergerConfig) { f(cfg) }

// WithDriverFS sets the filesystem a Merger reads manifests from.
func WithDriverFS(fsys fs.FS) MergerOption {
	return mergerOptionFunc(func(cfg *mergerConfig) { cfg.fsys = fsys })
}

// WithDriverResolver sets a custom library resolver, overriding filesystem
// lookup for library ids a driver doesn't find under its FS.
func WithDriverResolver(r LibraryResolver) MergerOption {
	return mergerOptionFunc(func(cfg *mergerConfig) { cfg.resolver = r })
}

// WithDriverReadLimits sets the read limits applied to every manifest a
// Merger parses.
func WithDriverReadLimits(limits ReadLimits) MergerOption {
	return mergerOptionFunc(func(cfg *mergerConfig) { cfg.readLimit = limits })
}

// WithDriverMergeOptions sets the merge options applied to every merge a
// Merger performs.
func WithDriverMergeOptions(opts MergeOptions) MergerOption {
	return mergerOptionFunc(func(cfg *mergerConfig) { cfg.merge = opts })
}

// Merger runs repeated merges against a fixed configuration: a
// filesystem, a library resolver, read limits, and merge options built
// once and reused. It is safe for concurrent use, the way the teacher's
// pooled validation Engine is: each MergeFiles call is independent and
// touches no shared mutable state beyond the parsed-library cache that
// loadLibraryCached fills.
type Merger struct {
	cfg   mergerConfig
	cache sync.Map // location string -> *Manifest, reused across repeated merges of the same library
}

// NewMerger builds a Merger from the given options.
func NewMerger(opts ...MergerOption) *Merger {
	cfg := mergerConfig{merge: NewMergeOptions()}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return &Merger{cfg: cfg}
}

// LibraryLocation names one library manifest to load, pairing its stable
// id with the path MergeFiles reads it from.
type LibraryLocation struct {
	ID   string
	Path string
}

// MergeFiles loads mainLocation as the primary manifest and each entry of
// libraryLocations as a library, in the given order, then merges them.
// Libraries are processed in that order (§4.1); their contributions
// appear in the output in the same order, so the caller's slice order is
// load-bearing, unlike a map's.
func (m *Merger) MergeFiles(mainLocation string, libraryLocations []LibraryLocation) (*Result, errors.Diagnostics, error) {
	if m == nil || m.cfg.fsys == nil {
		return nil, nil, fmt.Errorf("merge %s: no filesystem configured", mainLocation)
	}

	f, err := m.cfg.fsys.Open(mainLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("load manifest %s: %w", mainLocation, err)
	}
	primary, err := LoadManifestWithLimits(f, mainLocation, m.cfg.readLimit)
	f.Close()
	if err != nil {
		return nil, nil, err
	}

	libraries := make([]Library, 0, len(libraryLocations))
	for _, loc := range libraryLocations {
		lib, err := m.loadLibraryCached(loc.ID, loc.Path)
		if err != nil {
			return nil, nil, err
		}
		libraries = append(libraries, lib)
	}

	result, diags := primary.Merge(libraries, m.cfg.merge)
	return result, diags, nil
}

func (m *Merger) loadLibraryCached(id, location string) (Library, error) {
	if cached, ok := m.cache.Load(location); ok {
		return cached.(Library), nil
	}
	lib, err := LoadLibraryFS(m.cfg.fsys, location, id)
	if err != nil {
		if m.cfg.resolver == nil {
			return Library{}, err
		}
		r, resolveErr := m.cfg.resolver.ResolveLibrary(id)
		if resolveErr != nil {
			return Library{}, fmt.Errorf("load library %s: %w (resolver: %v)", id, err, resolveErr)
		}
		lib, err = LoadLibrary(r, id)
		if err != nil {
			return Library{}, err
		}
	}
	m.cache.Store(location, lib)
	return lib, nil
}

package manifestmerger

import (
	"fmt"
	"io/fs"
	"path"
)

// DiscoveryPolicy controls how DiscoverLibraries finds library manifest
// files under a root directory.
type DiscoveryPolicy int

const (
	// DiscoverRootOnly looks for a single manifest file directly under
	// the given root.
	DiscoverRootOnly DiscoveryPolicy = iota
	// DiscoverImmediateChildren treats every immediate subdirectory of
	// root that contains a manifest file as one library, named after the
	// subdirectory.
	DiscoverImmediateChildren
)

// DiscoverOptions configures DiscoverLibraries.
type DiscoverOptions struct {
	Policy   DiscoveryPolicy
	FileName string
}

func (o DiscoverOptions) resolved() DiscoverOptions {
	if o.FileName == "" {
		o.FileName = "AndroidManifest.xml"
	}
	return o
}

// DiscoverLibraries finds library manifests under root according to opts,
// loading each one and tagging it with a stable library id (§4.6).
func DiscoverLibraries(fsys fs.FS, root string, opts DiscoverOptions) ([]Library, error) {
	opts = opts.resolved()

	switch opts.Policy {
	case DiscoverImmediateChildren:
		entries, err := fs.ReadDir(fsys, root)
		if err != nil {
			return nil, fmt.Errorf("discover libraries under %s: %w", root, err)
		}
		var libraries []Library
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			location := path.Join(root, entry.Name(), opts.FileName)
			if _, err := fs.Stat(fsys, location); err != nil {
				continue
			}
			lib, err := LoadLibraryFS(fsys, location, entry.Name())
			if err != nil {
				return nil, err
			}
			libraries = append(libraries, lib)
		}
		return libraries, nil

	default:
		location := path.Join(root, opts.FileName)
		lib, err := LoadLibraryFS(fsys, location, root)
		if err != nil {
			return nil, err
		}
		return []Library{lib}, nil
	}
}

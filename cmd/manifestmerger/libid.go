package main

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// libraryArg is one --lib flag value, either a bare path or an
// "id=path" pair.
type libraryArg struct {
	ID   string
	Path string
}

// parseLibraryArg splits a --lib flag value on the first '=', treating
// the whole value as a path with no explicit id when there is none.
func parseLibraryArg(raw string) libraryArg {
	if idx := strings.IndexByte(raw, '='); idx >= 0 {
		return libraryArg{ID: raw[:idx], Path: raw[idx+1:]}
	}
	return libraryArg{Path: raw}
}

// resolveLibraryID assigns the stable id a library's contribution marker
// uses (§4.1) when the driver has no explicit id for it: the file's base
// name without extension, or a uuid-derived short id when the path
// itself carries no usable name (e.g. an empty path).
func resolveLibraryID(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "lib-" + uuid.NewString()[:8]
	}
	return base
}

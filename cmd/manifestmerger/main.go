// Command manifestmerger merges Android library manifests into a primary
// manifest from the command line, mirroring cmd/xmllint's shape: a thin
// main that delegates to a testable entry point taking explicit
// stdout/stderr writers.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

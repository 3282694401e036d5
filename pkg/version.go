// Package mpdb builds taxonomy-annotated protein databases for
// metaproteomics.
package mpdb

var (
	// Version of mpdb, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)

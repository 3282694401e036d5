// Package main provides the mpdb CLI application.
// mpdb builds taxonomy-annotated protein databases for metaproteomics.
package main

import "github.com/gnames/mpdb/cmd"

func main() {
	cmd.Execute()
}

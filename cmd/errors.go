package cmd

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

func inputError(path string, err error) error {
	msg := "Cannot open input file <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot open %s: %w", path, err),
	}
}

func unknownIDError(s string, err error) error {
	msg := "<em>%s</em> is not an NCBI taxon identifier"
	vars := []any{s}
	return &gn.Error{
		Code: errcode.UnknownTaxonError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bad taxon id %q: %w", s, err),
	}
}

func noTaxaError(input string) error {
	msg := `None of the names from <em>%s</em> are found in NCBI taxonomy`
	vars := []any{input}
	return &gn.Error{
		Code: errcode.TaxonListEmptyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no taxa resolved from %s", input),
	}
}

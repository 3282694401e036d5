package iotaxlist

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// ReadError is returned when a taxon list file cannot be read.
func ReadError(path string, err error) error {
	msg := "Cannot read taxon list <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read taxon list %s: %w", path, err),
	}
}

// WriteError is returned when a taxon list file cannot be written.
func WriteError(path string, err error) error {
	msg := "Cannot write taxon list <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write taxon list %s: %w", path, err),
	}
}

// EmptyError is returned when a taxon list has no names, or when none of
// its names resolve to taxon identifiers.
func EmptyError(path string) error {
	msg := "Taxon list <em>%s</em> has no usable names"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.TaxonListEmptyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("taxon list %s is empty", path),
	}
}

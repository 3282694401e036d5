package otu

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// TableError is returned when an OTU table cannot be read or lacks
// required data.
func TableError(line int, err error) error {
	msg := "Cannot read OTU table at line <em>%d</em>"
	vars := []any{line}
	return &gn.Error{
		Code: errcode.OTUTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("OTU table line %d: %w", line, err),
	}
}

// MalformedLabelError is returned when a label does not follow the
// "<prefix>__<name>" convention.
func MalformedLabelError(label string) error {
	msg := `OTU label <em>%s</em> is malformed

Labels must look like "g__Vibrio" where the prefix is one or two
lowercase letters.`
	vars := []any{label}
	return &gn.Error{
		Code: errcode.MalformedLabelError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("malformed OTU label %q", label),
	}
}

package iopublish

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// PublishError is returned when output cannot be created or delivered to
// its destination.
func PublishError(dest string, err error) error {
	msg := "Cannot write output to <em>%s</em>"
	vars := []any{dest}
	return &gn.Error{
		Code: errcode.PublishError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("publish to %s: %w", dest, err),
	}
}

package iometrics

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// WriteError is returned when the metrics textfile cannot be written.
func WriteError(path string, err error) error {
	msg := "Cannot write metrics to <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.MetricsWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("metrics textfile %s: %w", path, err),
	}
}

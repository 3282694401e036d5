package annotate

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// AnnotateError wraps a failure of an annotation run. Errors that already
// carry a code are returned as they are.
func AnnotateError(err error) error {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return err
	}
	msg := "Cannot annotate sequences"
	return &gn.Error{
		Code: errcode.AnnotateError,
		Msg:  msg,
		Err:  fmt.Errorf("annotation failed: %w", err),
	}
}

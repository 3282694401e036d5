package iouniprot

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// RequestError is returned when a request to the sequence service cannot
// be made or its response cannot be read.
func RequestError(url string, err error) error {
	msg := "Cannot get protein sequences from <em>%s</em>"
	vars := []any{url}
	return &gn.Error{
		Code: errcode.FetchRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("request to %s failed: %w", url, err),
	}
}

// StatusError is returned when the sequence service responds with a
// non-200 status.
func StatusError(url string, status int, body string) error {
	msg := "Sequence service <em>%s</em> returned status %d"
	vars := []any{url, status}
	return &gn.Error{
		Code: errcode.FetchStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("status %d from %s: %s", status, url, body),
	}
}

package iofs

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// CreateDirError is returned when one of mpdb config, cache or log
// directories cannot be created.
func CreateDirError(dir string, err error) error {
	msg := "Cannot create mpdb directory <em>%s</em>"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("mkdir %s: %w", dir, err),
	}
}

// ConfigWriteError is returned when the default config.yaml cannot be
// saved on the first run.
func ConfigWriteError(path string, err error) error {
	msg := "Cannot save default config to <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ConfigWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("write default config %s: %w", path, err),
	}
}

// ConfigReadError is returned when config.yaml cannot be read or does not
// match mpdb settings.
func ConfigReadError(path string, err error) error {
	msg := "Cannot read config <em>%s</em>, fix or remove the file"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ConfigReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("read config %s: %w", path, err),
	}
}

package iotaxdump

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// ReadError is returned when a dump file is absent, unreadable or empty.
func ReadError(path string, err error) error {
	msg := "Cannot read taxonomy dump <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxdumpReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn.Name(), path, err),
	}
}

// FormatError is returned when a dump line does not follow the
// pipe-delimited layout.
func FormatError(path string, lineNum int, line string) error {
	msg := `Malformed line <em>%d</em> in <em>%s</em>

<em>Line:</em> %s

Taxonomy dump lines must have at least 4 fields separated by "|".`
	vars := []any{lineNum, path, line}
	return &gn.Error{
		Code: errcode.TaxdumpFormatError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("malformed line %d in %s: %q",
			lineNum, path, line),
	}
}

// DownloadError is returned when taxdump.tar.gz cannot be downloaded or
// extracted.
func DownloadError(url string, err error) error {
	msg := `Cannot download taxonomy dump from <em>%s</em>

<em>How to fix:</em>
  1. Check network access to NCBI
  2. Download taxdump.tar.gz manually and extract names.dmp and
     nodes.dmp into the taxonomy dump directory`
	vars := []any{url}
	return &gn.Error{
		Code: errcode.TaxdumpDownloadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot download %s: %w", url, err),
	}
}

package iosqlite

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// OpenError is returned when the snapshot file cannot be opened or
// initialized.
func OpenError(path string, err error) error {
	msg := "Cannot open taxonomy snapshot <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.SnapshotOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("open snapshot %s: %w", path, err),
	}
}

// ImportError is returned when the taxonomy dump cannot be imported into
// the snapshot.
func ImportError(err error) error {
	msg := `Cannot import taxonomy dump into the snapshot

<em>How to fix:</em>
  Remove the snapshot file and run <em>mpdb taxdump</em> again`
	return &gn.Error{
		Code: errcode.SnapshotImportError,
		Msg:  msg,
		Err:  fmt.Errorf("import snapshot: %w", err),
	}
}

// QueryError is returned when a snapshot query fails.
func QueryError(err error) error {
	msg := "Taxonomy snapshot query failed"
	return &gn.Error{
		Code: errcode.SnapshotQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("query snapshot: %w", err),
	}
}

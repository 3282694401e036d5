package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
)

// ConnectionError is returned when the PostgreSQL pool cannot be created
// or does not answer.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d/%s</em> as <em>%s</em>

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s</em>
  2. Review the database section of ~/.config/mpdb/config.yaml
  3. Or set taxonomy store to <em>sqlite</em>`
	vars := []any{host, port, database, user, host}
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError is returned when a query is attempted before Connect.
func NotConnectedError() error {
	msg := "Database operation attempted without a connection"
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError is returned when table metadata cannot be read.
func TableCheckError(err error) error {
	msg := "Cannot check database tables"
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}

// QueryError is returned when a taxonomy query fails.
func QueryError(err error) error {
	msg := "Taxonomy query to PostgreSQL failed"
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("taxonomy query failed: %w", err),
	}
}

// ImportError is returned when the taxonomy dump cannot be copied into
// PostgreSQL.
func ImportError(table string, err error) error {
	msg := "Cannot import taxonomy dump into table <em>%s</em>"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBImportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("import into %s failed: %w", table, err),
	}
}

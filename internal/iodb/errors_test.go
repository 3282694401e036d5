package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		vars int
	}{
		{"connection", ConnectionError("localhost", 5432, "mpdb", "postgres", cause),
			errcode.DBConnectionError, 5},
		{"table check", TableCheckError(cause), errcode.DBQueryError, 0},
		{"drop", DropTableError("taxon_names", cause), errcode.DBQueryError, 1},
		{"query", QueryError(cause), errcode.DBQueryError, 0},
		{"import", ImportError("taxon_nodes", cause), errcode.DBImportError, 1},
	}

	for _, tt := range tests {
		gnErr, ok := tt.err.(*gn.Error)
		require.True(t, ok, tt.msg)
		assert.Equal(t, tt.code, gnErr.Code, tt.msg)
		assert.Len(t, gnErr.Vars, tt.vars, tt.msg)
		assert.ErrorIs(t, gnErr.Err, cause, tt.msg)
		assert.NotEmpty(t, gnErr.Msg, tt.msg)
	}

	gnErr := NotConnectedError().(*gn.Error)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

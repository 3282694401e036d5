package db_test

import (
	"testing"

	"github.com/gnames/mpdb/internal/iodb"
	"github.com/gnames/mpdb/pkg/db"
	"github.com/stretchr/testify/assert"
)

func TestPgxOperatorImplementsInterface(t *testing.T) {
	var op db.Operator = iodb.NewPgxOperator()
	assert.Nil(t, op.Pool())
	assert.NoError(t, op.Close())
}

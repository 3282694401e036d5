// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/mpdb/pkg/db"
	"github.com/gnames/mpdb/pkg/lifecycle"
	"github.com/gnames/mpdb/pkg/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates or updates the taxonomy schema using GORM AutoMigrate
// and sets "C" collation on scientific names.
func (m *manager) Create(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	if err := m.setCollation(ctx); err != nil {
		return err
	}

	slog.Info("Taxonomy schema is ready", "tables", schema.TableNames())
	return nil
}

// Reset drops all tables and creates the schema from scratch.
func (m *manager) Reset(ctx context.Context) error {
	if m.operator.Pool() == nil {
		return NotConnectedError()
	}
	if err := m.operator.DropAllTables(ctx); err != nil {
		return err
	}
	return m.Create(ctx)
}

// setCollation sets "C" collation on scientific names, so that sorting
// and comparison are byte-wise.
func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()

	type columnDef struct {
		table, column string
		varchar       int
	}

	columns := []columnDef{
		{"taxon_names", "name", 500},
	}

	for _, col := range columns {
		q := fmt.Sprintf(
			`ALTER TABLE %s ALTER COLUMN %s TYPE VARCHAR(%d) COLLATE "C"`,
			pgx.Identifier{col.table}.Sanitize(),
			pgx.Identifier{col.column}.Sanitize(),
			col.varchar,
		)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col.table, col.column, err)
		}
	}

	return nil
}

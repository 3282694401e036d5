package iodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/gnames/mpdb/internal/iotaxdump"
	"github.com/gnames/mpdb/pkg/db"
	"github.com/gnames/mpdb/pkg/taxonomy"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxDepth stops lineage queries on corrupted trees.
const maxDepth = 256

// Taxonomy is a taxonomy store in PostgreSQL. The schema must be created
// by ioschema before Import.
type Taxonomy struct {
	operator  db.Operator
	batchSize int
}

// NewTaxonomy creates a PostgreSQL taxonomy store that copies rows in
// batches of batchSize.
func NewTaxonomy(op db.Operator, batchSize int) *Taxonomy {
	if batchSize <= 0 {
		batchSize = 50_000
	}
	return &Taxonomy{operator: op, batchSize: batchSize}
}

func (t *Taxonomy) pool() (*pgxpool.Pool, error) {
	pool := t.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}
	return pool, nil
}

// Close closes the underlying operator.
func (t *Taxonomy) Close() error {
	return t.operator.Close()
}

// Import replaces taxon_names and taxon_nodes with the dump content in a
// single transaction.
func (t *Taxonomy) Import(
	ctx context.Context,
	namesPath, nodesPath string,
) error {
	pool, err := t.pool()
	if err != nil {
		return err
	}
	start := time.Now()

	names, err := readNames(namesPath)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return ImportError("taxon_names", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, "TRUNCATE taxon_names, taxon_nodes")
	if err != nil {
		return ImportError("taxon_names", err)
	}

	if err = t.copyNames(ctx, tx, names); err != nil {
		return err
	}
	nodesNum, err := t.copyNodes(ctx, tx, nodesPath)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO taxonomy_imports (imported_at, names_num, nodes_num)
		 VALUES ($1, $2, $3)`,
		time.Now().UTC(), len(names), nodesNum,
	)
	if err != nil {
		return ImportError("taxonomy_imports", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return ImportError("taxon_names", err)
	}

	slog.Info("Taxonomy is imported to PostgreSQL",
		"names", len(names), "nodes", nodesNum)
	gn.Info(
		"Imported %s names and %s nodes in %s",
		humanize.Comma(int64(len(names))),
		humanize.Comma(int64(nodesNum)),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

// readNames collects scientific names, the last name of a taxon wins.
func readNames(path string) (map[taxonomy.TaxonID]string, error) {
	f, err := iotaxdump.OpenDump(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := make(map[taxonomy.TaxonID]string)
	err = iotaxdump.ScanNames(f, path,
		func(id taxonomy.TaxonID, name string) error {
			res[id] = name
			return nil
		})
	return res, err
}

func (t *Taxonomy) copyNames(
	ctx context.Context,
	tx pgx.Tx,
	names map[taxonomy.TaxonID]string,
) error {
	cols := []string{"taxon_id", "name_id", "name"}
	batch := make([][]any, 0, t.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"taxon_names"}, cols,
			pgx.CopyFromRows(batch))
		if err != nil {
			return ImportError("taxon_names", err)
		}
		batch = batch[:0]
		return nil
	}

	for id, name := range names {
		batch = append(batch, []any{int(id), gnuuid.New(name).String(), name})
		if len(batch) == t.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func (t *Taxonomy) copyNodes(
	ctx context.Context,
	tx pgx.Tx,
	path string,
) (int, error) {
	f, err := iotaxdump.OpenDump(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cols := []string{"taxon_id", "parent_id", "rank"}
	batch := make([][]any, 0, t.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"taxon_nodes"}, cols,
			pgx.CopyFromRows(batch))
		if err != nil {
			return ImportError("taxon_nodes", err)
		}
		batch = batch[:0]
		return nil
	}

	var count int
	err = iotaxdump.ScanNodes(f, path,
		func(id, parentID taxonomy.TaxonID, rank string) error {
			count++
			batch = append(batch, []any{int(id), int(parentID), rank})
			if len(batch) == t.batchSize {
				return flush()
			}
			return nil
		})
	if err != nil {
		return 0, err
	}
	return count, flush()
}

// ImportedAt returns the time of the latest import.
func (t *Taxonomy) ImportedAt(ctx context.Context) (time.Time, error) {
	pool, err := t.pool()
	if err != nil {
		return time.Time{}, err
	}

	var res *time.Time
	err = pool.QueryRow(ctx,
		"SELECT max(imported_at) FROM taxonomy_imports").Scan(&res)
	if err != nil {
		return time.Time{}, QueryError(err)
	}
	if res == nil {
		return time.Time{}, nil
	}
	return *res, nil
}

// NameIndex loads all scientific names.
func (t *Taxonomy) NameIndex(ctx context.Context) (*taxonomy.NameIndex, error) {
	pool, err := t.pool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, "SELECT taxon_id, name FROM taxon_names")
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	b := taxonomy.NewIndexBuilder()
	for rows.Next() {
		var id int
		var name string
		if err = rows.Scan(&id, &name); err != nil {
			return nil, QueryError(err)
		}
		b.Add(taxonomy.TaxonID(id), name)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(err)
	}
	return b.Build(), nil
}

// Ancestry returns the chain from the root to id using a recursive query.
func (t *Taxonomy) Ancestry(
	ctx context.Context,
	id taxonomy.TaxonID,
) ([]taxonomy.Node, error) {
	pool, err := t.pool()
	if err != nil {
		return nil, err
	}

	q := `
WITH RECURSIVE chain AS (
	SELECT taxon_id, parent_id, rank, 0 AS depth
	FROM taxon_nodes WHERE taxon_id = $1
	UNION ALL
	SELECT n.taxon_id, n.parent_id, n.rank, c.depth + 1
	FROM taxon_nodes n JOIN chain c ON n.taxon_id = c.parent_id
	WHERE c.taxon_id <> c.parent_id AND c.depth < $2
)
SELECT taxon_id, parent_id, rank FROM chain ORDER BY depth DESC`

	rows, err := pool.Query(ctx, q, int(id), maxDepth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []taxonomy.Node
	var rootReached bool
	for rows.Next() {
		var nodeID, parentID int
		var rank string
		if err = rows.Scan(&nodeID, &parentID, &rank); err != nil {
			return nil, err
		}
		if len(res) == 0 {
			rootReached = nodeID == parentID
		}
		res = append(res, taxonomy.Node{ID: taxonomy.TaxonID(nodeID), Rank: rank})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("taxon %d: %w", id, taxonomy.ErrNoAncestry)
	}
	if !rootReached {
		return nil, fmt.Errorf("taxon %d: %w", id, taxonomy.ErrBrokenLineage)
	}
	return res, nil
}

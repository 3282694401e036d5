// Package iosqlite keeps an NCBI taxonomy snapshot in a SQLite file so
// that the dump files are parsed once and reused between runs.
package iosqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/mpdb/internal/iotaxdump"
	"github.com/gnames/mpdb/pkg/taxonomy"
	_ "modernc.org/sqlite"
)

// FileName is the default snapshot name inside the cache directory.
const FileName = "taxonomy.sqlite"

// maxDepth stops lineage queries on corrupted trees.
const maxDepth = 256

const schema = `
CREATE TABLE IF NOT EXISTS names (
	taxon_id INTEGER PRIMARY KEY,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	taxon_id  INTEGER PRIMARY KEY,
	parent_id INTEGER NOT NULL,
	rank      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is a taxonomy snapshot. It implements taxonomy.AncestryProvider.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the snapshot at path.
func Open(path string) (*Store, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, OpenError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, OpenError(path, err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the location of the snapshot file.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ImportedAt returns the time of the last successful import, or the zero
// time when the snapshot is empty.
func (s *Store) ImportedAt(ctx context.Context) (time.Time, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'imported_at'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, QueryError(err)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, QueryError(err)
	}
	return t, nil
}

// Import replaces the snapshot content with scientific names and nodes
// from the dump files. Everything happens in one transaction, a failed
// import leaves the previous snapshot intact.
func (s *Store) Import(ctx context.Context, namesPath, nodesPath string) error {
	start := time.Now()
	gn.Info("Importing taxonomy dump into <em>%s</em>", s.path)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportError(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		"DELETE FROM names", "DELETE FROM nodes", "DELETE FROM meta",
	} {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return ImportError(err)
		}
	}

	namesNum, err := importNames(ctx, tx, namesPath)
	if err != nil {
		return err
	}
	nodesNum, err := importNodes(ctx, tx, nodesPath)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('imported_at', ?)`,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return ImportError(err)
	}
	if err = tx.Commit(); err != nil {
		return ImportError(err)
	}

	slog.Info("Taxonomy snapshot is imported",
		"path", s.path, "names", namesNum, "nodes", nodesNum)
	gn.Info(
		"Imported %s names and %s nodes in %s",
		humanize.Comma(int64(namesNum)),
		humanize.Comma(int64(nodesNum)),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

func importNames(ctx context.Context, tx *sql.Tx, path string) (int, error) {
	f, err := iotaxdump.OpenDump(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO names (taxon_id, name) VALUES (?, ?)`)
	if err != nil {
		return 0, ImportError(err)
	}
	defer stmt.Close()

	var count int
	err = iotaxdump.ScanNames(f, path,
		func(id taxonomy.TaxonID, name string) error {
			count++
			if _, err := stmt.ExecContext(ctx, int(id), name); err != nil {
				return ImportError(err)
			}
			return nil
		})
	return count, err
}

func importNodes(ctx context.Context, tx *sql.Tx, path string) (int, error) {
	f, err := iotaxdump.OpenDump(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO nodes (taxon_id, parent_id, rank)
		 VALUES (?, ?, ?)`)
	if err != nil {
		return 0, ImportError(err)
	}
	defer stmt.Close()

	var count int
	err = iotaxdump.ScanNodes(f, path,
		func(id, parentID taxonomy.TaxonID, rank string) error {
			count++
			_, err := stmt.ExecContext(ctx, int(id), int(parentID), rank)
			if err != nil {
				return ImportError(err)
			}
			return nil
		})
	return count, err
}

// NameIndex loads all scientific names from the snapshot.
func (s *Store) NameIndex(ctx context.Context) (*taxonomy.NameIndex, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT taxon_id, name FROM names`)
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

// Ancestry returns the chain from the root to id.
func (s *Store) Ancestry(
	ctx context.Context,
	id taxonomy.TaxonID,
) ([]taxonomy.Node, error) {
	q := `
WITH RECURSIVE chain(taxon_id, parent_id, rank, depth) AS (
	SELECT taxon_id, parent_id, rank, 0 FROM nodes WHERE taxon_id = ?
	UNION ALL
	SELECT n.taxon_id, n.parent_id, n.rank, c.depth + 1
	FROM nodes n JOIN chain c ON n.taxon_id = c.parent_id
	WHERE c.taxon_id <> c.parent_id AND c.depth < ?
)
SELECT taxon_id, parent_id, rank FROM chain ORDER BY depth DESC`

	rows, err := s.db.QueryContext(ctx, q, int(id), maxDepth)
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

package cmd

import (
	"context"
	"log/slog"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/internal/iodb"
	"github.com/gnames/mpdb/internal/ioschema"
	"github.com/gnames/mpdb/internal/iosqlite"
	"github.com/gnames/mpdb/internal/iotaxdump"
	"github.com/gnames/mpdb/pkg/config"
	"github.com/gnames/mpdb/pkg/lifecycle"
	"github.com/gnames/mpdb/pkg/taxonomy"
)

// taxonomyData is NCBI taxonomy prepared for one run: the NameIndex and
// the ancestry provider of the configured store.
type taxonomyData struct {
	idx      *taxonomy.NameIndex
	provider taxonomy.AncestryProvider
	close    func() error
}

func (t *taxonomyData) Close() {
	if t.close == nil {
		return
	}
	if err := t.close(); err != nil {
		slog.Warn("Cannot close taxonomy store", "error", err)
	}
}

// openTaxonomy loads NCBI taxonomy from the configured store. Missing
// dump files are downloaded, empty persistent stores are imported first.
func openTaxonomy(
	ctx context.Context,
	cfg *config.Config,
) (*taxonomyData, error) {
	switch cfg.Taxonomy.Store {
	case "memory":
		return openMemory(ctx, cfg)
	default:
		store, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		res, err := loadStore(ctx, cfg, store)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		return res, nil
	}
}

func openMemory(
	ctx context.Context,
	cfg *config.Config,
) (*taxonomyData, error) {
	namesPath, nodesPath, err := iotaxdump.Fetch(
		ctx, cfg.Taxonomy.DumpURL, cfg.TaxdumpDir(),
	)
	if err != nil {
		return nil, err
	}

	idx, err := iotaxdump.LoadNames(namesPath)
	if err != nil {
		return nil, err
	}
	nodes, err := iotaxdump.LoadNodes(nodesPath)
	if err != nil {
		return nil, err
	}
	return &taxonomyData{idx: idx, provider: nodes}, nil
}

// openStore opens the persistent store selected by config. For PostgreSQL
// the schema is created when it does not exist yet.
func openStore(
	ctx context.Context,
	cfg *config.Config,
) (lifecycle.TaxonomyStore, error) {
	if cfg.Taxonomy.Store != "postgres" {
		s, err := iosqlite.Open(cfg.SnapshotPath())
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	sm := ioschema.NewManager(op)
	if err := sm.Create(ctx); err != nil {
		_ = op.Close()
		return nil, err
	}
	return iodb.NewTaxonomy(op, cfg.Database.BatchSize), nil
}

func loadStore(
	ctx context.Context,
	cfg *config.Config,
	store lifecycle.TaxonomyStore,
) (*taxonomyData, error) {
	importedAt, err := store.ImportedAt(ctx)
	if err != nil {
		return nil, err
	}

	if importedAt.IsZero() {
		gn.Info("Taxonomy store is empty, importing NCBI taxdump")
		if err = importTaxdump(ctx, cfg, store); err != nil {
			return nil, err
		}
	} else {
		slog.Info("Using imported taxonomy",
			"store", cfg.Taxonomy.Store, "imported_at", importedAt)
	}

	idx, err := store.NameIndex(ctx)
	if err != nil {
		return nil, err
	}
	res := &taxonomyData{
		idx:      idx,
		provider: store,
		close:    store.Close,
	}
	return res, nil
}

// importTaxdump makes sure dump files exist and imports them into store.
func importTaxdump(
	ctx context.Context,
	cfg *config.Config,
	store lifecycle.TaxonomyStore,
) error {
	namesPath, nodesPath, err := iotaxdump.Fetch(
		ctx, cfg.Taxonomy.DumpURL, cfg.TaxdumpDir(),
	)
	if err != nil {
		return err
	}
	return store.Import(ctx, namesPath, nodesPath)
}

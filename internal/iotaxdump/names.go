package iotaxdump

import (
	"log/slog"

	"github.com/gnames/mpdb/pkg/taxonomy"
)

// LoadNames builds a NameIndex from a names.dmp file. Only scientific
// names are kept. The file must exist and be non-empty.
func LoadNames(path string) (*taxonomy.NameIndex, error) {
	f, err := OpenDump(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := taxonomy.NewIndexBuilder()
	var count int
	err = ScanNames(f, path, func(id taxonomy.TaxonID, name string) error {
		count++
		if count%500_000 == 0 {
			progressReport(count, "scientific names")
		}
		b.Add(id, name)
		return nil
	})
	clearProgress()
	if err != nil {
		return nil, err
	}

	idx := b.Build()
	slog.Info("Name index is built",
		"path", path,
		"scientific_names", count,
		"taxa", idx.Len()-1,
	)
	return idx, nil
}

/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/mpdb/internal/iodb"
	"github.com/gnames/mpdb/internal/ioschema"
	"github.com/gnames/mpdb/internal/iotaxdump"
	"github.com/spf13/cobra"
)

// getTaxdumpCmd returns the taxdump command.
func getTaxdumpCmd() *cobra.Command {
	var refresh, reset bool

	taxdumpCmd := &cobra.Command{
		Use:   "taxdump",
		Short: "Download NCBI taxdump and import it into the taxonomy store",
		Long: `Download NCBI taxdump and import it into the taxonomy store.

This command:
  1. Downloads taxdump.tar.gz and extracts names.dmp and nodes.dmp,
     unless both files already exist in the dump directory
  2. Imports scientific names and the taxonomy tree into the store:
     - sqlite:   ~/.cache/mpdb/taxonomy.sqlite
     - postgres: taxon_names and taxon_nodes tables
     - memory:   nothing is stored, dump files are only checked

Other commands import the dump automatically when the store is empty.
Run this command to update the store to a newer NCBI release.

Examples:
  mpdb taxdump
  mpdb taxdump --refresh
  mpdb taxdump -s postgres --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runTaxdump(cmd, refresh, reset)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	taxdumpCmd.Flags().BoolVarP(&refresh, "refresh", "r", false,
		"download dump files even if they exist")
	taxdumpCmd.Flags().BoolVar(&reset, "reset", false,
		"drop and recreate PostgreSQL tables before import")

	return taxdumpCmd
}

func runTaxdump(cmd *cobra.Command, refresh, reset bool) error {
	ctx := cmd.Context()
	start := time.Now()

	if refresh {
		removeDumps(cfg.TaxdumpDir())
	}

	switch cfg.Taxonomy.Store {
	case "memory":
		td, err := openMemory(ctx, cfg)
		if err != nil {
			return err
		}
		gn.Info("Dump files have <em>%s</em> scientific names",
			humanize.Comma(int64(td.idx.Len()-1)))
		return nil
	case "postgres":
		if reset {
			if err := resetPostgres(ctx); err != nil {
				return err
			}
		}
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err = importTaxdump(ctx, cfg, store); err != nil {
		return err
	}

	gn.Info("Taxonomy store <em>%s</em> is ready in %s",
		cfg.Taxonomy.Store,
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}

func removeDumps(dir string) {
	names, nodes := iotaxdump.Paths(dir)
	for _, v := range []string{names, nodes} {
		err := os.Remove(v)
		if err != nil && !os.IsNotExist(err) {
			slog.Warn("Cannot remove dump file", "path", v, "error", err)
		}
	}
}

func resetPostgres(ctx context.Context) error {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Dropping all tables of <em>%s</em>", cfg.Database.Database)
	return ioschema.NewManager(op).Reset(ctx)
}

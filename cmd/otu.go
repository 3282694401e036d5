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
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/mpdb/internal/iometrics"
	"github.com/gnames/mpdb/internal/iopublish"
	"github.com/gnames/mpdb/internal/iotaxlist"
	"github.com/gnames/mpdb/pkg/otu"
	"github.com/gnames/mpdb/pkg/taxonomy"
	"github.com/spf13/cobra"
)

// getOTUCmd returns the otu command.
func getOTUCmd() *cobra.Command {
	var output string

	otuCmd := &cobra.Command{
		Use:   "otu <otu-table.tsv>",
		Short: "Create a list of abundant taxa from an OTU table",
		Long: `Create a list of abundant taxa from an OTU table.

This command:
  1. Reads a tab-separated OTU table with 'sample', 'num_hits' and
     'taxonomy' columns ('-' reads STDIN)
  2. Sums hits of every taxon at the chosen rank
  3. Keeps taxa with at least --cutoff hits
  4. Validates taxon names against NCBI taxonomy
  5. Writes validated names, one per line

Taxonomy labels look like "k__Bacteria; p__Proteobacteria; ...; g__Vibrio".

Examples:
  mpdb otu otu_table.tsv -o genera.txt
  mpdb otu otu_table.tsv -l family -c 10
  mpdb otu otu_table.tsv -o s3://bucket/run1/genera.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runOTU(cmd, args[0], output)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	levelFlag(otuCmd.Flags())
	otuCmd.Flags().IntP("cutoff", "c", 0,
		"minimal sum of hits for a taxon to be kept")
	outputFlag(otuCmd.Flags(), &output)

	return otuCmd
}

func runOTU(cmd *cobra.Command, input, output string) error {
	ctx := cmd.Context()
	start := time.Now()
	m := iometrics.New()
	defer saveMetrics(m)

	rank, _ := taxonomy.NewRank(cfg.OTU.Level)

	r, err := openInput(input)
	if err != nil {
		return err
	}
	rows, err := otu.ReadTable(r)
	r.Close()
	if err != nil {
		return err
	}

	labels := otu.AbundantLabels(rows, rank, cfg.OTU.Cutoff)
	gn.Info("%s OTU rows give %s %s taxa with at least %d hits",
		humanize.Comma(int64(len(rows))),
		humanize.Comma(int64(len(labels))), rank.String(), cfg.OTU.Cutoff)

	td, err := openTaxonomy(ctx, cfg)
	if err != nil {
		return err
	}
	defer td.Close()

	set, err := otu.Validate(labels, td.idx)
	if err != nil {
		return err
	}
	m.SetValidated(len(set))
	if len(set) < len(labels) {
		gn.Warn("%d taxa are not found in NCBI taxonomy",
			len(labels)-len(set))
	}

	w, err := iopublish.Create(ctx, output, cfg.S3)
	if err != nil {
		return err
	}
	if err = iotaxlist.Encode(w, set); err != nil {
		_ = w.Abort()
		return iopublish.PublishError(output, err)
	}
	if err = w.Close(); err != nil {
		return err
	}

	m.ObserveStage("otu", start)
	gn.Info("Validated <em>%s</em> taxa in %s",
		humanize.Comma(int64(len(set))),
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}

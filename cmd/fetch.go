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
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/mpdb/internal/iometrics"
	"github.com/gnames/mpdb/internal/iopublish"
	"github.com/gnames/mpdb/internal/iotaxlist"
	"github.com/gnames/mpdb/internal/iouniprot"
	"github.com/gnames/mpdb/pkg/annotate"
	"github.com/gnames/mpdb/pkg/parserpool"
	"github.com/gnames/mpdb/pkg/taxonomy"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
func getFetchCmd() *cobra.Command {
	var (
		output      string
		addTaxonomy bool
	)

	fetchCmd := &cobra.Command{
		Use:   "fetch <taxa.txt>",
		Short: "Download UniProt proteins of taxa from a taxon list",
		Long: `Download UniProt proteins of taxa from a taxon list.

This command:
  1. Reads taxon names, one per line (for example output of 'mpdb otu')
  2. Finds NCBI taxon identifiers of the names. Names unknown verbatim
     are normalized by gnparser, homonyms are narrowed down by --level
  3. Downloads proteins of the taxa and their descendants from UniProt
  4. With --taxonomy, appends the lineage of every protein to its header

Examples:
  mpdb fetch genera.txt -o proteins.fasta
  mpdb fetch genera.txt --reviewed --taxonomy -o proteins.fasta
  mpdb fetch genera.txt -t -o s3://bucket/run1/proteins.fasta`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetch(cmd, args[0], output, addTaxonomy)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	levelFlag(fetchCmd.Flags())
	fetchCmd.Flags().BoolP("reviewed", "r", false,
		"only reviewed (Swiss-Prot) proteins")
	fetchCmd.Flags().BoolVarP(&addTaxonomy, "taxonomy", "t", false,
		"append lineages to FASTA headers")
	fetchCmd.Flags().StringP("marker", "m", "",
		`literal before taxon id in headers (default "OX=")`)
	outputFlag(fetchCmd.Flags(), &output)

	return fetchCmd
}

func runFetch(
	cmd *cobra.Command,
	input, output string,
	addTaxonomy bool,
) error {
	ctx := cmd.Context()
	start := time.Now()
	m := iometrics.New()
	defer saveMetrics(m)

	names, err := iotaxlist.Read(input)
	if err != nil {
		return err
	}

	td, err := openTaxonomy(ctx, cfg)
	if err != nil {
		return err
	}
	defer td.Close()

	ids, err := resolveNames(ctx, names, td)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return noTaxaError(input)
	}
	m.SetResolved(len(ids))
	m.ObserveStage("resolve", start)

	fetchStart := time.Now()
	client := iouniprot.New(cfg.Fetch)
	r, err := client.Fetch(ctx, ids, cfg.Fetch.Reviewed)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := iopublish.Create(ctx, output, cfg.S3)
	if err != nil {
		return err
	}

	if addTaxonomy {
		err = annotateStream(ctx, td, r, w, m)
	} else {
		_, err = io.Copy(w, r)
	}
	if err != nil {
		_ = w.Abort()
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}

	m.ObserveStage("fetch", fetchStart)
	gn.Info("Proteins of <em>%s</em> taxa are saved in %s",
		humanize.Comma(int64(len(ids))),
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}

func resolveNames(
	ctx context.Context,
	names []string,
	td *taxonomyData,
) ([]taxonomy.TaxonID, error) {
	rank, _ := taxonomy.NewRank(cfg.OTU.Level)
	pool := parserpool.NewPool(cfg.JobsNumber)
	defer pool.Close()

	res, err := iotaxlist.Resolve(ctx, names, td.idx, td.provider, pool, rank)
	if err != nil {
		return nil, err
	}
	if len(res.Unresolved) > 0 {
		gn.Warn("%d names are not found in NCBI taxonomy",
			len(res.Unresolved))
	}
	gn.Info("%s names resolved to <em>%s</em> NCBI taxa",
		humanize.Comma(int64(len(names)-len(res.Unresolved))),
		humanize.Comma(int64(len(res.IDs))))
	return res.IDs, nil
}

// annotateStream writes FASTA from r to w with lineages appended to
// headers.
func annotateStream(
	ctx context.Context,
	td *taxonomyData,
	r io.Reader,
	w io.Writer,
	m *iometrics.Metrics,
) error {
	a := annotate.New(td.idx, td.provider,
		annotate.OptMarker(cfg.Annotate.Marker),
		annotate.OptJobsNumber(cfg.JobsNumber),
	)
	st, err := a.Annotate(ctx, r, w)
	m.AddStats(st)
	if err != nil {
		return err
	}
	gn.Info("Annotated %s of %s records, %s without lineage",
		humanize.Comma(int64(st.Annotated)),
		humanize.Comma(int64(st.Records)),
		humanize.Comma(int64(st.NotFound)))
	return nil
}

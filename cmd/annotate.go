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

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/mpdb/internal/iometrics"
	"github.com/gnames/mpdb/internal/iopublish"
	"github.com/spf13/cobra"
)

// getAnnotateCmd returns the annotate command.
func getAnnotateCmd() *cobra.Command {
	var output string

	annotateCmd := &cobra.Command{
		Use:   "annotate <proteins.fasta>",
		Short: "Append NCBI lineages to FASTA headers",
		Long: `Append NCBI lineages to FASTA headers.

Every header with a taxon marker, for example 'OX=662', receives
' TAX=<superkingdom>, <phylum>, <class>, <order>, <family>, <genus>'.
Ranks missing from the lineage are given as '-1'. Headers without a
marker, or with a taxon unknown to NCBI taxonomy, receive ' TAX=not_found'.
Sequences and the order of records stay unchanged.

Examples:
  mpdb annotate uniprot.fasta -o annotated.fasta
  cat uniprot.fasta | mpdb annotate - > annotated.fasta
  mpdb annotate proteins.fasta -m "TaxID=" -o annotated.fasta`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAnnotate(cmd, args[0], output)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	annotateCmd.Flags().StringP("marker", "m", "",
		`literal before taxon id in headers (default "OX=")`)
	outputFlag(annotateCmd.Flags(), &output)

	return annotateCmd
}

func runAnnotate(cmd *cobra.Command, input, output string) error {
	ctx := cmd.Context()
	start := time.Now()
	m := iometrics.New()
	defer saveMetrics(m)

	r, err := openInput(input)
	if err != nil {
		return err
	}
	defer r.Close()

	td, err := openTaxonomy(ctx, cfg)
	if err != nil {
		return err
	}
	defer td.Close()

	w, err := iopublish.Create(ctx, output, cfg.S3)
	if err != nil {
		return err
	}
	if err = annotateStream(ctx, td, r, w, m); err != nil {
		_ = w.Abort()
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}

	m.ObserveStage("annotate", start)
	gn.Info("Annotation took %s",
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}

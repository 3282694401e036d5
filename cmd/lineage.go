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
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/mpdb/pkg/errcode"
	"github.com/gnames/mpdb/pkg/taxonomy"
	"github.com/spf13/cobra"
)

// lineageRecord is the output of the lineage command for one taxon.
type lineageRecord struct {
	TaxonID taxonomy.TaxonID            `json:"taxonId"`
	Name    string                      `json:"name,omitempty"`
	Found   bool                        `json:"found"`
	Names   map[string]string           `json:"names,omitempty"`
	IDs     map[string]taxonomy.TaxonID `json:"ids,omitempty"`
	Tag     string                      `json:"tag,omitempty"`
}

// getLineageCmd returns the lineage command.
func getLineageCmd() *cobra.Command {
	var format string

	lineageCmd := &cobra.Command{
		Use:   "lineage <taxon-id>...",
		Short: "Print lineages of NCBI taxon identifiers",
		Long: `Print lineages of NCBI taxon identifiers.

For every identifier the command prints its ancestors at superkingdom,
phylum, class, order, family and genus ranks. Identifier -1 means an
unclassified taxon.

Formats:
  csv      comma-separated values with a header (default)
  tsv      tab-separated values with a header
  compact  one JSON object per line
  pretty   indented JSON

Examples:
  mpdb lineage 662 1386
  mpdb lineage 662 -f pretty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLineage(cmd, args, format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	lineageCmd.Flags().StringVarP(&format, "format", "f", "csv",
		"output format: csv, tsv, compact, pretty")

	return lineageCmd
}

func runLineage(cmd *cobra.Command, args []string, format string) error {
	ctx := cmd.Context()

	f, err := outputFormat(format)
	if err != nil {
		return err
	}

	ids := make([]taxonomy.TaxonID, len(args))
	for i, v := range args {
		if ids[i], err = taxonomy.ParseTaxonID(v); err != nil {
			return unknownIDError(v, err)
		}
	}

	td, err := openTaxonomy(ctx, cfg)
	if err != nil {
		return err
	}
	defer td.Close()

	recs := make([]lineageRecord, len(ids))
	for i, id := range ids {
		if recs[i], err = lineageOf(ctx, id, td); err != nil {
			return err
		}
	}

	return writeLineages(cmd.OutOrStdout(), recs, f)
}

func lineageOf(
	ctx context.Context,
	id taxonomy.TaxonID,
	td *taxonomyData,
) (lineageRecord, error) {
	res := lineageRecord{TaxonID: id}
	lin, err := taxonomy.ResolveRanks(ctx, id, td.provider)
	if taxonomy.Unresolvable(err) {
		if taxonomy.HasCode(err, errcode.BrokenLineageError) {
			slog.Warn("Lineage of taxon is broken", "taxon_id", int(id))
		}
		return res, nil
	}
	if err != nil {
		return res, err
	}

	names, err := lin.Names(td.idx)
	if err != nil {
		return res, err
	}
	res.Found = true
	res.Name, _ = td.idx.Lookup(id)
	res.IDs = lin.Map()
	res.Names = make(map[string]string, taxonomy.RanksNum)
	for i, r := range taxonomy.Ranks() {
		res.Names[r.String()] = names[i]
	}
	res.Tag, err = lin.Tag(td.idx)
	return res, err
}

func outputFormat(s string) (gnfmt.Format, error) {
	switch s {
	case "csv":
		return gnfmt.CSV, nil
	case "tsv":
		return gnfmt.TSV, nil
	case "compact":
		return gnfmt.CompactJSON, nil
	case "pretty":
		return gnfmt.PrettyJSON, nil
	}
	return gnfmt.CSV, &gn.Error{
		Code: errcode.UnknownError,
		Msg:  "Unknown output format <em>%s</em>",
		Vars: []any{s},
		Err:  fmt.Errorf("unknown format %q", s),
	}
}

func writeLineages(
	w io.Writer,
	recs []lineageRecord,
	f gnfmt.Format,
) error {
	switch f {
	case gnfmt.CompactJSON, gnfmt.PrettyJSON:
		enc := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}
		for _, v := range recs {
			bs, err := enc.Encode(v)
			if err != nil {
				return err
			}
			if _, err = fmt.Fprintln(w, string(bs)); err != nil {
				return err
			}
		}
		return nil
	}

	sep := ','
	if f == gnfmt.TSV {
		sep = '\t'
	}
	header := []string{"TaxonID", "Name", "Found"}
	for _, r := range taxonomy.Ranks() {
		header = append(header, r.String(), r.String()+"ID")
	}
	if _, err := fmt.Fprintln(w, csvLine(header, sep)); err != nil {
		return err
	}

	for _, v := range recs {
		row := []string{v.TaxonID.String(), v.Name, strconv.FormatBool(v.Found)}
		for _, r := range taxonomy.Ranks() {
			row = append(row, v.Names[r.String()])
			id := ""
			if v.Found {
				id = v.IDs[r.String()].String()
			}
			row = append(row, id)
		}
		if _, err := fmt.Fprintln(w, csvLine(row, sep)); err != nil {
			return err
		}
	}
	return nil
}

func csvLine(fields []string, sep rune) string {
	return strings.TrimRight(gnfmt.ToCSV(fields, sep), "\r\n")
}

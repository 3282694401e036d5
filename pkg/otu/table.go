package otu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gnames/mpdb/pkg/taxonomy"
)

// Required columns of an OTU table.
const (
	ColSample   = "sample"
	ColNumHits  = "num_hits"
	ColTaxonomy = "taxonomy"
)

// TaxonomySeparator separates rank labels in the taxonomy column.
const TaxonomySeparator = "; "

var prefixOnlyRx = regexp.MustCompile(`^[a-z]{1,2}__$`)

// ReadTable reads a tab-separated OTU table. The header must contain the
// sample, num_hits and taxonomy columns in any order; other columns are
// ignored. A missing column, a short row or a non-integer hit count
// aborts reading.
func ReadTable(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, TableError(1, errors.New("table is empty"))
	}
	if err != nil {
		return nil, TableError(1, err)
	}

	cols := make(map[string]int, len(header))
	for i, v := range header {
		cols[strings.TrimSpace(v)] = i
	}
	var idx [3]int
	for i, c := range []string{ColSample, ColNumHits, ColTaxonomy} {
		pos, ok := cols[c]
		if !ok {
			return nil, TableError(1, fmt.Errorf("column %q is missing", c))
		}
		idx[i] = pos
	}
	width := max(idx[0], idx[1], idx[2]) + 1

	var res []Row
	line := 1
	for {
		rec, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, TableError(line, err)
		}
		if len(rec) < width {
			return nil, TableError(line,
				fmt.Errorf("expected at least %d fields, got %d", width, len(rec)))
		}

		hits, err := strconv.Atoi(strings.TrimSpace(rec[idx[1]]))
		if err != nil {
			return nil, TableError(line,
				fmt.Errorf("num_hits %q is not an integer", rec[idx[1]]))
		}
		res = append(res, Row{
			Sample:  rec[idx[0]],
			NumHits: hits,
			Labels:  ParseTaxonomy(rec[idx[2]]),
		})
	}
	return res, nil
}

// ParseTaxonomy splits a taxonomy string into rank labels. The first
// element is a root marker and is discarded, the next six map to
// superkingdom through genus. Missing, empty and prefix-only elements
// ("g__") become nil.
func ParseTaxonomy(s string) [taxonomy.RanksNum]*string {
	var res [taxonomy.RanksNum]*string
	parts := strings.Split(strings.TrimSpace(s), TaxonomySeparator)
	if len(parts) < 2 {
		return res
	}
	for i, p := range parts[1:] {
		if i >= taxonomy.RanksNum {
			break
		}
		p = strings.TrimSpace(p)
		if p == "" || prefixOnlyRx.MatchString(p) {
			continue
		}
		res[i] = &p
	}
	return res
}

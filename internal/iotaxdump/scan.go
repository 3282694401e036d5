// Package iotaxdump reads NCBI taxonomy dump files (names.dmp and
// nodes.dmp) and downloads them from NCBI when they are missing.
package iotaxdump

import (
	"bufio"
	"errors"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/gnames/mpdb/pkg/taxonomy"
)

const (
	// ScientificName is the name class of canonical names in names.dmp.
	ScientificName = "scientific name"

	// minFields is the smallest number of fields in a usable dump line.
	minFields = 4

	// maxLine allows for very long lines in dump files.
	maxLine = 16 * 1024 * 1024
)

// delimiter separates dump fields: optional tabs or spaces, a pipe, and
// optional tabs or spaces.
var delimiter = regexp.MustCompile(`[\t ]*\|[\t ]*`)

// splitLine splits a right-trimmed dump line into fields.
func splitLine(line string) []string {
	return delimiter.Split(strings.TrimRight(line, " \t\r\n"), -1)
}

// NameFunc receives the identifier and name of a scientific-name line.
type NameFunc func(id taxonomy.TaxonID, name string) error

// NodeFunc receives one nodes.dmp line.
type NodeFunc func(id, parentID taxonomy.TaxonID, rank string) error

// ScanNames reads names.dmp lines from r and calls fn for every line whose
// fourth field is "scientific name". Blank lines are ignored, any other
// line with fewer than four fields or a non-numeric identifier is a
// FormatError. The path is used only in error messages.
func ScanNames(r io.Reader, path string, fn NameFunc) error {
	return scanLines(r, path, func(num int, line string) error {
		fields := splitLine(line)
		if len(fields) < minFields {
			return FormatError(path, num, line)
		}
		if fields[3] != ScientificName {
			return nil
		}
		id, err := taxonomy.ParseTaxonID(fields[0])
		if err != nil {
			return FormatError(path, num, line)
		}
		return fn(id, fields[1])
	})
}

// ScanNodes reads nodes.dmp lines from r and calls fn with the taxon id,
// its parent id and its rank label.
func ScanNodes(r io.Reader, path string, fn NodeFunc) error {
	return scanLines(r, path, func(num int, line string) error {
		fields := splitLine(line)
		if len(fields) < minFields {
			return FormatError(path, num, line)
		}
		id, err := taxonomy.ParseTaxonID(fields[0])
		if err != nil {
			return FormatError(path, num, line)
		}
		parentID, err := taxonomy.ParseTaxonID(fields[1])
		if err != nil {
			return FormatError(path, num, line)
		}
		return fn(id, parentID, fields[2])
	})
}

func scanLines(
	r io.Reader,
	path string,
	fn func(num int, line string) error,
) error {
	sc := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var num int
	for sc.Scan() {
		num++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(num, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return ReadError(path, err)
	}
	return nil
}

// OpenDump opens a dump file and refuses absent or empty files.
func OpenDump(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	if info.IsDir() {
		return nil, ReadError(path, errors.New("path is a directory"))
	}
	if info.Size() == 0 {
		return nil, ReadError(path, errors.New("file is empty"))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	return f, nil
}

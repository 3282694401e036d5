// Package iotaxlist reads and writes plain taxon lists, one name per
// line, and resolves their names to NCBI taxon identifiers.
package iotaxlist

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/gnames/mpdb/pkg/otu"
)

// Write saves the set of names to path, sorted, one name per line.
func Write(path string, set map[string]struct{}) error {
	f, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}

	err = Encode(f, set)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return WriteError(path, err)
	}
	return nil
}

// Encode writes the set of names to w, sorted, one name per line.
func Encode(w io.Writer, set map[string]struct{}) error {
	bw := bufio.NewWriter(w)
	for _, v := range otu.Sorted(set) {
		if _, err := bw.WriteString(v + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read returns names from a taxon list file in their original order.
// Surrounding whitespace is removed, blank lines, lines starting with '#'
// and repeated names are skipped. A list without names is an error.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadError(path, err)
	}
	defer f.Close()

	res, err := Decode(f)
	if err != nil {
		return nil, ReadError(path, err)
	}
	if len(res) == 0 {
		return nil, EmptyError(path)
	}
	return res, nil
}

// Decode reads names from r, see Read.
func Decode(r io.Reader) ([]string, error) {
	var res []string
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		res = append(res, name)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

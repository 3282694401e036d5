package otu

import (
	"regexp"
	"slices"
	"strings"

	"github.com/gnames/mpdb/pkg/taxonomy"
)

// labelRx matches "<prefix>__<name>": a one or two letter lowercase rank
// prefix, a double underscore and a non-empty name.
var labelRx = regexp.MustCompile(`^[a-z]{1,2}__(.+)$`)

// ExtractToken returns the taxon name carried by an OTU label. The name
// is cut at its first underscore, so "g__Vibrio_sp" gives "Vibrio".
func ExtractToken(label string) (string, error) {
	m := labelRx.FindStringSubmatch(label)
	if m == nil {
		return "", MalformedLabelError(label)
	}
	token, _, _ := strings.Cut(m[1], "_")
	if token == "" {
		return "", MalformedLabelError(label)
	}
	return token, nil
}

// Validate extracts tokens from labels and keeps those that are
// scientific names in idx. The first malformed label aborts validation.
// An empty result is not an error.
func Validate(
	labels []string,
	idx *taxonomy.NameIndex,
) (map[string]struct{}, error) {
	res := make(map[string]struct{})
	for _, l := range labels {
		token, err := ExtractToken(l)
		if err != nil {
			return nil, err
		}
		if idx.HasName(token) {
			res[token] = struct{}{}
		}
	}
	return res, nil
}

// Sorted returns names of a validated set in ascending order.
func Sorted(set map[string]struct{}) []string {
	res := make([]string, 0, len(set))
	for k := range set {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

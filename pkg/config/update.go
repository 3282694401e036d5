package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes the runtime-only HomeDir.
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	addStr := func(s string, fn func(string) Option) {
		if s != "" {
			res = append(res, fn(s))
		}
	}
	addInt := func(i int, fn func(int) Option) {
		if i > 0 {
			res = append(res, fn(i))
		}
	}

	addStr(c.Taxonomy.DumpURL, OptTaxonomyDumpURL)
	addStr(c.Taxonomy.DumpDir, OptTaxonomyDumpDir)
	addStr(c.Taxonomy.Store, OptTaxonomyStore)

	addStr(c.Database.Host, OptDatabaseHost)
	addInt(c.Database.Port, OptDatabasePort)
	addStr(c.Database.User, OptDatabaseUser)
	addStr(c.Database.Password, OptDatabasePassword)
	addStr(c.Database.Database, OptDatabaseDatabase)
	addStr(c.Database.SSLMode, OptDatabaseSSLMode)
	addInt(c.Database.BatchSize, OptDatabaseBatchSize)

	addStr(c.OTU.Level, OptOTULevel)
	addInt(c.OTU.Cutoff, OptOTUCutoff)

	addStr(c.Fetch.URL, OptFetchURL)
	res = append(res, OptFetchReviewed(c.Fetch.Reviewed))
	addInt(c.Fetch.BatchSize, OptFetchBatchSize)
	addInt(c.Fetch.TimeoutSec, OptFetchTimeoutSec)

	addStr(c.Annotate.Marker, OptAnnotateMarker)

	addStr(c.S3.Region, OptS3Region)
	addStr(c.S3.Endpoint, OptS3Endpoint)
	res = append(res, OptS3PathStyle(c.S3.PathStyle))

	addStr(c.Log.Format, OptLogFormat)
	addStr(c.Log.Level, OptLogLevel)
	addStr(c.Log.Destination, OptLogDestination)

	addInt(c.JobsNumber, OptJobsNumber)
	addStr(c.MetricsFile, OptMetricsFile)
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Taxonomy.Store": {"memory": s, "sqlite": s, "postgres": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"OTU.Level": {"superkingdom": s, "phylum": s, "class": s,
			"order": s, "family": s, "genus": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}

	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}

package cmd

import (
	"github.com/gnames/mpdb/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagOptions converts explicitly set flags into config options.
// Flags override values from config.yaml and environment.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fs := cmd.Flags()

	str := func(name string, fn func(string) config.Option) {
		if !fs.Changed(name) {
			return
		}
		if s, err := fs.GetString(name); err == nil {
			res = append(res, fn(s))
		}
	}
	num := func(name string, fn func(int) config.Option) {
		if !fs.Changed(name) {
			return
		}
		if i, err := fs.GetInt(name); err == nil {
			res = append(res, fn(i))
		}
	}
	boolean := func(name string, fn func(bool) config.Option) {
		if !fs.Changed(name) {
			return
		}
		if b, err := fs.GetBool(name); err == nil {
			res = append(res, fn(b))
		}
	}

	num("jobs-number", config.OptJobsNumber)
	str("store", config.OptTaxonomyStore)
	str("log-level", config.OptLogLevel)
	str("metrics-file", config.OptMetricsFile)

	str("level", config.OptOTULevel)
	num("cutoff", config.OptOTUCutoff)
	boolean("reviewed", config.OptFetchReviewed)
	str("marker", config.OptAnnotateMarker)

	return res
}

// levelFlag adds the --level flag shared by otu and fetch.
func levelFlag(fs *pflag.FlagSet) {
	fs.StringP("level", "l", "",
		"rank of taxa: superkingdom, phylum, class, order, family, genus")
}

// outputFlag adds the --output flag. Output can be a file, '-' for
// STDOUT, or s3://bucket/key.
func outputFlag(fs *pflag.FlagSet, output *string) {
	fs.StringVarP(output, "output", "o", "-",
		"output file, '-' for STDOUT, or s3://bucket/key")
}

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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/internal/iofs"
	"github.com/gnames/mpdb/internal/iologger"
	app "github.com/gnames/mpdb/pkg"
	"github.com/gnames/mpdb/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
	runID   string
)

// getRootCmd returns the root command with all subcommands attached.
// A new instance is created on every call to keep tests independent.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "mpdb",
		Short:   "mpdb builds taxonomy-annotated protein databases for metaproteomics",
		Long: `mpdb builds taxonomy-annotated protein databases for metaproteomics.

It turns an OTU table or a list of genera into validated NCBI taxon
identifiers, downloads their proteins from UniProt and stamps every FASTA
header with the lineage of its organism.

Pipelines:
  otu       OTU table -> abundant taxa validated by NCBI taxonomy
  fetch     taxon list -> UniProt FASTA, optionally with lineages
  annotate  FASTA with OX= markers -> FASTA with TAX= lineages

Taxonomy:
  taxdump   download NCBI taxdump and import it into the selected store
  lineage   print lineages of taxon identifiers

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (MPDB_*)
  3. Config file (~/.config/mpdb/config.yaml)
  4. Built-in defaults

Nested fields use underscores: otu.cutoff -> MPDB_OTU_CUTOFF.
Run 'mpdb config' to see the effective configuration.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "mpdb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for mpdb")

	pf := rootCmd.PersistentFlags()
	pf.IntP("jobs-number", "j", 0,
		"number of concurrent workers (default: number of CPU threads)")
	pf.StringP("store", "s", "",
		"taxonomy store: memory, sqlite or postgres")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("metrics-file", "",
		"write Prometheus textfile metrics to this path")

	rootCmd.AddCommand(
		getOTUCmd(),
		getFetchCmd(),
		getAnnotateCmd(),
		getLineageCmd(),
		getTaxdumpCmd(),
		getConfigCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	runID = uuid.NewString()

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	err = iologger.Init(config.LogDir(homeDir), defaultLog, false, "run_id", runID)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	cfg.Update(flagOptions(cmd))

	// Reconfigure logging with user's settings, keep the log of this run
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"version", app.Version,
		"command", cmd.Name(),
	)

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true, "run_id", runID)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	return &res, nil
}

// envKeys are config keys that can be set by MPDB_* environment
// variables. They match the fields included in config.ToOptions().
var envKeys = []string{
	"taxonomy.dump_url",
	"taxonomy.dump_dir",
	"taxonomy.store",

	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",
	"database.batch_size",

	"otu.level",
	"otu.cutoff",

	"fetch.url",
	"fetch.reviewed",
	"fetch.batch_size",
	"fetch.timeout_sec",

	"annotate.marker",

	"s3.region",
	"s3.endpoint",
	"s3.path_style",

	"log.level",
	"log.format",
	"log.destination",

	"jobs_number",
	"metrics_file",
}

func initEnvVars(v *viper.Viper) {
	// Keys are bound one by one, so only known variables are accepted,
	// for example otu.cutoff -> MPDB_OTU_CUTOFF.
	v.SetEnvPrefix("MPDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}

	v.AutomaticEnv()
}

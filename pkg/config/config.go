// Package config provides configuration management for mpdb.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Taxonomy: dump_url, dump_dir, store
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - OTU: level, cutoff
//   - Fetch: url, reviewed, batch_size, timeout_sec
//   - Annotate: marker
//   - S3: region, endpoint, path_style
//   - Log: level, format, destination
//   - General: jobs_number, metrics_file
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use MPDB_ prefix with underscores for nesting:
//
//	MPDB_TAXONOMY_STORE=sqlite
//	MPDB_OTU_CUTOFF=5
//	MPDB_FETCH_REVIEWED=true
//	MPDB_LOG_LEVEL=info
//	MPDB_JOBS_NUMBER=8
package config

import (
	"path/filepath"
	"runtime"
)

// Config represents the complete mpdb configuration.
type Config struct {
	// Taxonomy describes where NCBI taxonomy comes from and how it is kept.
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy" yaml:"taxonomy"`

	// Database contains PostgreSQL connection settings. It is used only
	// when Taxonomy.Store is "postgres".
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// OTU contains settings of the OTU table pipeline.
	OTU OTUConfig `mapstructure:"otu" yaml:"otu"`

	// Fetch contains settings of the protein sequence service.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// Annotate contains settings of FASTA header annotation.
	Annotate AnnotateConfig `mapstructure:"annotate" yaml:"annotate"`

	// S3 configures uploads of results to s3:// destinations.
	S3 S3Config `mapstructure:"s3" yaml:"s3"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// MetricsFile is a path for Prometheus textfile metrics written at the
	// end of a run. Empty value disables metrics output.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `yaml:"-"`
}

// TaxonomyConfig contains settings of the NCBI taxonomy snapshot.
type TaxonomyConfig struct {
	// DumpURL is the location of NCBI taxdump.tar.gz.
	DumpURL string `mapstructure:"dump_url" yaml:"dump_url"`

	// DumpDir keeps names.dmp and nodes.dmp. When empty, the taxdump
	// directory inside the cache dir is used.
	DumpDir string `mapstructure:"dump_dir" yaml:"dump_dir"`

	// Store selects the ancestry provider.
	// Valid values: "memory", "sqlite", "postgres".
	Store string `mapstructure:"store" yaml:"store"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of rows sent per CopyFrom call during import.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// OTUConfig contains settings of the OTU table pipeline.
type OTUConfig struct {
	// Level is the rank at which OTU hits are summed.
	// Valid values: "superkingdom", "phylum", "class", "order", "family",
	// "genus".
	Level string `mapstructure:"level" yaml:"level"`

	// Cutoff is the smallest sum of hits for a taxon to be kept.
	Cutoff int `mapstructure:"cutoff" yaml:"cutoff"`
}

// FetchConfig contains settings of the protein sequence service.
type FetchConfig struct {
	// URL is the UniProt REST stream endpoint.
	URL string `mapstructure:"url" yaml:"url"`

	// Reviewed limits results to reviewed (Swiss-Prot) entries.
	Reviewed bool `mapstructure:"reviewed" yaml:"reviewed"`

	// BatchSize is the number of taxon ids sent in one request.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// TimeoutSec bounds every request to the service.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// AnnotateConfig contains settings of FASTA header annotation.
type AnnotateConfig struct {
	// Marker is the literal that precedes the NCBI taxon id in a header.
	Marker string `mapstructure:"marker" yaml:"marker"`
}

// S3Config configures the S3 client used for s3:// outputs.
type S3Config struct {
	// Region is the AWS region. Empty value leaves the choice to the
	// AWS SDK default chain.
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint overrides the service URL, for MinIO and similar stores.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `mapstructure:"path_style" yaml:"path_style"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Taxonomy: TaxonomyConfig{
			DumpURL: "https://ftp.ncbi.nlm.nih.gov/pub/taxonomy/taxdump.tar.gz",
			Store:   "sqlite",
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "mpdb",
			SSLMode:   "disable",
			BatchSize: 50_000,
		},
		OTU: OTUConfig{
			Level:  "genus",
			Cutoff: 5,
		},
		Fetch: FetchConfig{
			URL:        "https://rest.uniprot.org/uniprotkb/stream",
			BatchSize:  50,
			TimeoutSec: 600,
		},
		Annotate: AnnotateConfig{
			Marker: "OX=",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}

// TaxdumpDir returns the directory with names.dmp and nodes.dmp.
func (c *Config) TaxdumpDir() string {
	if c.Taxonomy.DumpDir != "" {
		return c.Taxonomy.DumpDir
	}
	return filepath.Join(CacheDir(c.HomeDir), "taxdump")
}

// SnapshotPath returns the location of the SQLite taxonomy snapshot.
func (c *Config) SnapshotPath() string {
	return filepath.Join(CacheDir(c.HomeDir), "taxonomy.sqlite")
}

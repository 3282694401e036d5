package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/mpdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "mpdb"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "mpdb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "mpdb", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "mpdb", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Taxonomy.DumpURL, "taxdump.tar.gz")
	assert.Equal(t, "sqlite", cfg.Taxonomy.Store)
	assert.Equal(t, "", cfg.Taxonomy.DumpDir)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "mpdb", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "genus", cfg.OTU.Level)
	assert.Equal(t, 5, cfg.OTU.Cutoff)

	assert.Equal(t, "https://rest.uniprot.org/uniprotkb/stream", cfg.Fetch.URL)
	assert.False(t, cfg.Fetch.Reviewed)
	assert.Equal(t, 50, cfg.Fetch.BatchSize)

	assert.Equal(t, "OX=", cfg.Annotate.Marker)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	assert.Empty(t, cfg.MetricsFile)
}

func TestPaths(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/me")})
	assert.Equal(t, "/home/me/.cache/mpdb/taxdump", cfg.TaxdumpDir())
	assert.Equal(t, "/home/me/.cache/mpdb/taxonomy.sqlite", cfg.SnapshotPath())

	cfg.Update([]config.Option{config.OptTaxonomyDumpDir("/data/ncbi")})
	assert.Equal(t, "/data/ncbi", cfg.TaxdumpDir())
}

func TestOptionStrings(t *testing.T) {
	tests := []struct {
		name     string
		opt      config.Option
		get      func(*config.Config) string
		expected string
	}{
		{
			name:     "database host trims whitespace",
			opt:      config.OptDatabaseHost("  db.example.com  "),
			get:      func(c *config.Config) string { return c.Database.Host },
			expected: "db.example.com",
		},
		{
			name:     "database host ignores whitespace-only",
			opt:      config.OptDatabaseHost("   "),
			get:      func(c *config.Config) string { return c.Database.Host },
			expected: "localhost",
		},
		{
			name:     "annotate marker",
			opt:      config.OptAnnotateMarker("OS="),
			get:      func(c *config.Config) string { return c.Annotate.Marker },
			expected: "OS=",
		},
		{
			name:     "annotate marker ignores empty",
			opt:      config.OptAnnotateMarker(""),
			get:      func(c *config.Config) string { return c.Annotate.Marker },
			expected: "OX=",
		},
		{
			name:     "fetch url",
			opt:      config.OptFetchURL("http://localhost:8080/stream"),
			get:      func(c *config.Config) string { return c.Fetch.URL },
			expected: "http://localhost:8080/stream",
		},
		{
			name:     "s3 endpoint",
			opt:      config.OptS3Endpoint("http://minio:9000"),
			get:      func(c *config.Config) string { return c.S3.Endpoint },
			expected: "http://minio:9000",
		},
		{
			name:     "metrics file",
			opt:      config.OptMetricsFile("/var/lib/node/mpdb.prom"),
			get:      func(c *config.Config) string { return c.MetricsFile },
			expected: "/var/lib/node/mpdb.prom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestOptionEnums(t *testing.T) {
	tests := []struct {
		name     string
		opt      config.Option
		get      func(*config.Config) string
		expected string
	}{
		{
			name:     "store postgres",
			opt:      config.OptTaxonomyStore("postgres"),
			get:      func(c *config.Config) string { return c.Taxonomy.Store },
			expected: "postgres",
		},
		{
			name:     "store normalizes case",
			opt:      config.OptTaxonomyStore(" Memory "),
			get:      func(c *config.Config) string { return c.Taxonomy.Store },
			expected: "memory",
		},
		{
			name:     "store ignores invalid",
			opt:      config.OptTaxonomyStore("badger"),
			get:      func(c *config.Config) string { return c.Taxonomy.Store },
			expected: "sqlite",
		},
		{
			name:     "otu level family",
			opt:      config.OptOTULevel("family"),
			get:      func(c *config.Config) string { return c.OTU.Level },
			expected: "family",
		},
		{
			name:     "otu level ignores species",
			opt:      config.OptOTULevel("species"),
			get:      func(c *config.Config) string { return c.OTU.Level },
			expected: "genus",
		},
		{
			name:     "ssl mode normalizes case",
			opt:      config.OptDatabaseSSLMode("REQUIRE"),
			get:      func(c *config.Config) string { return c.Database.SSLMode },
			expected: "require",
		},
		{
			name:     "log level ignores trace",
			opt:      config.OptLogLevel("trace"),
			get:      func(c *config.Config) string { return c.Log.Level },
			expected: "info",
		},
		{
			name:     "log format tint",
			opt:      config.OptLogFormat("tint"),
			get:      func(c *config.Config) string { return c.Log.Format },
			expected: "tint",
		},
		{
			name:     "log destination stderr",
			opt:      config.OptLogDestination("stderr"),
			get:      func(c *config.Config) string { return c.Log.Destination },
			expected: "stderr",
		},
		{
			name:     "log destination ignores stdin",
			opt:      config.OptLogDestination("stdin"),
			get:      func(c *config.Config) string { return c.Log.Destination },
			expected: "file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestOptionInts(t *testing.T) {
	tests := []struct {
		name     string
		opt      config.Option
		get      func(*config.Config) int
		expected int
	}{
		{
			name:     "cutoff",
			opt:      config.OptOTUCutoff(8),
			get:      func(c *config.Config) int { return c.OTU.Cutoff },
			expected: 8,
		},
		{
			name:     "cutoff ignores zero",
			opt:      config.OptOTUCutoff(0),
			get:      func(c *config.Config) int { return c.OTU.Cutoff },
			expected: 5,
		},
		{
			name:     "fetch batch size ignores negative",
			opt:      config.OptFetchBatchSize(-3),
			get:      func(c *config.Config) int { return c.Fetch.BatchSize },
			expected: 50,
		},
		{
			name:     "port",
			opt:      config.OptDatabasePort(6432),
			get:      func(c *config.Config) int { return c.Database.Port },
			expected: 6432,
		},
		{
			name:     "jobs number ignores zero",
			opt:      config.OptJobsNumber(0),
			get:      func(c *config.Config) int { return c.JobsNumber },
			expected: runtime.NumCPU(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("first.host.com"),
		config.OptFetchReviewed(true),
		config.OptS3PathStyle(true),
		config.OptDatabaseHost("second.host.com"),
	})

	assert.Equal(t, "second.host.com", cfg.Database.Host)
	assert.True(t, cfg.Fetch.Reviewed)
	assert.True(t, cfg.S3.PathStyle)
	assert.Equal(t, "postgres", cfg.Database.Password)
}

func TestToOptions(t *testing.T) {
	t.Run("round trip of persistent fields", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptTaxonomyDumpURL("http://mirror/taxdump.tar.gz"),
			config.OptTaxonomyDumpDir("/data/taxdump"),
			config.OptTaxonomyStore("memory"),
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabaseBatchSize(10000),
			config.OptOTULevel("family"),
			config.OptOTUCutoff(12),
			config.OptFetchReviewed(true),
			config.OptFetchTimeoutSec(30),
			config.OptAnnotateMarker("TaxID="),
			config.OptS3Region("eu-central-1"),
			config.OptS3PathStyle(true),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(3),
			config.OptMetricsFile("/tmp/mpdb.prom"),
		})

		newCfg := config.New()
		newCfg.Update(original.ToOptions())
		assert.Equal(t, original, newCfg)
	})

	t.Run("false booleans survive round trip", func(t *testing.T) {
		original := config.New()
		target := config.New()
		target.Update([]config.Option{
			config.OptFetchReviewed(true),
			config.OptS3PathStyle(true),
		})
		target.Update(original.ToOptions())
		assert.False(t, target.Fetch.Reviewed)
		assert.False(t, target.S3.PathStyle)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir("/custom/home")})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())
		assert.Equal(t, "", newCfg.HomeDir)
	})
}

package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptTaxonomyDumpURL sets the location of NCBI taxdump.tar.gz.
func OptTaxonomyDumpURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Taxonomy Dump URL", s) {
			c.Taxonomy.DumpURL = s
		}
	}
}

// OptTaxonomyDumpDir sets the directory with names.dmp and nodes.dmp.
func OptTaxonomyDumpDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Taxonomy Dump Dir", s) {
			c.Taxonomy.DumpDir = s
		}
	}
}

// OptTaxonomyStore selects the ancestry provider.
// Valid values: "memory", "sqlite", "postgres".
func OptTaxonomyStore(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Taxonomy.Store", s) {
			c.Taxonomy.Store = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per bulk copy.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptOTULevel sets the rank at which OTU hits are summed.
func OptOTULevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("OTU.Level", s) {
			c.OTU.Level = s
		}
	}
}

// OptOTUCutoff sets the smallest sum of hits for a taxon to be kept.
func OptOTUCutoff(i int) Option {
	return func(c *Config) {
		if isValidInt("OTU Cutoff", i) {
			c.OTU.Cutoff = i
		}
	}
}

// OptFetchURL sets the UniProt REST stream endpoint.
func OptFetchURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Fetch URL", s) {
			c.Fetch.URL = s
		}
	}
}

// OptFetchReviewed limits fetched sequences to reviewed entries.
func OptFetchReviewed(b bool) Option {
	return func(c *Config) {
		c.Fetch.Reviewed = b
	}
}

// OptFetchBatchSize sets how many taxon ids go into one request.
func OptFetchBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch Batch Size", i) {
			c.Fetch.BatchSize = i
		}
	}
}

// OptFetchTimeoutSec sets the request timeout in seconds.
func OptFetchTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch Timeout", i) {
			c.Fetch.TimeoutSec = i
		}
	}
}

// OptAnnotateMarker sets the literal that precedes taxon ids in headers.
func OptAnnotateMarker(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Annotate Marker", s) {
			c.Annotate.Marker = s
		}
	}
}

// OptS3Region sets the AWS region for uploads.
func OptS3Region(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("S3 Region", s) {
			c.S3.Region = s
		}
	}
}

// OptS3Endpoint sets a custom S3-compatible endpoint.
func OptS3Endpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("S3 Endpoint", s) {
			c.S3.Endpoint = s
		}
	}
}

// OptS3PathStyle forces path-style addressing of buckets.
func OptS3PathStyle(b bool) Option {
	return func(c *Config) {
		c.S3.PathStyle = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptMetricsFile sets the Prometheus textfile output path.
func OptMetricsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics File", s) {
			c.MetricsFile = s
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	ConfigWriteError
	ConfigReadError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Taxonomy dump errors
	TaxdumpDownloadError
	TaxdumpReadError
	TaxdumpFormatError

	// Taxonomy resolution errors
	NameNotFoundError
	UnknownTaxonError
	BrokenLineageError
	AncestryError

	// OTU table errors
	OTUTableError
	MalformedLabelError

	// Taxon list errors
	TaxonListEmptyError

	// Snapshot (SQLite) errors
	SnapshotOpenError
	SnapshotImportError
	SnapshotQueryError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBQueryError
	DBImportError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError

	// Sequence fetch errors
	FetchRequestError
	FetchStatusError

	// Annotation errors
	AnnotateError

	// Publishing errors
	PublishError

	// Metrics errors
	MetricsWriteError
)

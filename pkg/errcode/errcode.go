package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Input table errors
	TableParseError
	TableDuplicateIDError
	RulesParseError

	// Lineage and rewrite errors
	LineageLabelError
	RewriteCrossDomainError

	// Tree errors
	TreeRankMismatchError
	TreeInputError

	// Validation errors
	ValidateParentError
	ValidateRankOverlapError

	// Harmonize errors
	HarmonizeEmptyInputError
	HarmonizeInputError
	HarmonizeCanceledError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBSchemaError
	DBExportError
	SQLiteExportError
)

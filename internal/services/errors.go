package services

import "errors"

// Dashboard service errors
var (
	ErrInvalidRequest = errors.New("invalid dashboard request")

	// Dataset errors. The HTTP views never return these; they fall back to an
	// empty dataset. Validate and the CLI report them.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	ErrSchemaIncomplete   = errors.New("dataset is missing required columns")

	ErrExportFailed = errors.New("export failed")
)

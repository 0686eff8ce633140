package domain

import "errors"

// Sentinel errors returned by services and mapped to HTTP codes by the handlers.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidYear         = errors.New("year must be between 2000 and 2100")
	ErrEmptyDocument       = errors.New("document text is empty")
	ErrExportEmpty         = errors.New("no documents for the requested year")
	ErrStorageDisabled     = errors.New("export archive storage is not configured")
)

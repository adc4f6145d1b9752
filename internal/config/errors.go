package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Config.RequireAPIKey()
// so callers can match them with errors.Is.
var (
	// ErrMissingAPIKey is returned when no Gemini API key is available.
	ErrMissingAPIKey = errors.New("missing API key: set GEMINI_API_KEY (or API_KEY)")

	// ErrMissingModel is returned when the model name is empty.
	ErrMissingModel = errors.New("missing model name")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxImageSize is returned when the image size limit is not positive.
	ErrInvalidMaxImageSize = errors.New("invalid max image size: must be positive")
)

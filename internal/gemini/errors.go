package gemini

import "errors"

var (
	// ErrMissingAPIKey is returned when no API key was configured.
	ErrMissingAPIKey = errors.New("gemini API key is not set")

	// ErrMissingModel is returned when no model name was configured.
	ErrMissingModel = errors.New("gemini model is not set")

	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// "host:port" form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

package classify

import "errors"

// Failure classes absorbed at the Client boundary. They never reach callers
// of Client but are attached to the diagnostic log entry of each fallback.
var (
	// ErrTransport is returned when the capability call itself fails:
	// network errors, API errors, cancelled contexts.
	ErrTransport = errors.New("classification transport failed")

	// ErrEmptyResponse is returned when the capability answers with no text.
	ErrEmptyResponse = errors.New("empty response from classification service")

	// ErrMalformedResponse is returned when the response is not valid JSON
	// or does not conform to the requested shape.
	ErrMalformedResponse = errors.New("malformed response from classification service")

	// ErrEmptyInput is returned when there is nothing to classify.
	ErrEmptyInput = errors.New("nothing to classify")
)

// failureClass names the class of err for log output.
func failureClass(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "input"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}

// Package classify submits scan payloads to an external classification
// capability and turns its JSON responses into model values.
//
// Every operation of Client is total. Transport failures, empty responses
// and responses that do not match the requested shape are logged with their
// original error and replaced by a fixed fallback value:
//
//   - ClassifyImage / ClassifyText / Classify: an UNKNOWN ScanResult
//   - FetchFraudCases: an empty slice
//   - FetchQuizQuestion: absence (ok == false)
//
// Each operation is a single round trip. There is no retry and no backoff;
// the interactive caller re-prompts the user instead.
//
// The capability itself is an interface so that tests can substitute a stub
// and the production binary can plug in the Gemini adapter from
// internal/gemini.
package classify

// Package normalize converts a captured ScanRequest into the canonical
// payload submitted for classification.
//
// Image requests may arrive wrapped in an envelope: a data URI produced by a
// browser canvas or file reader, or bare base64 text pasted into an API
// request. Normalize strips the envelope and returns the raw encoded image
// bytes together with their MIME type. Text requests pass through unchanged.
//
// Normalize performs no I/O and never fails. Input it cannot unwrap is passed
// through as-is, and applying Normalize to its own output yields the same
// bytes.
package normalize

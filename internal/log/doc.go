// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of sensitive values (API keys, tokens, secrets)
//   - Truncation of bulk payload attributes such as image bytes
//   - Configurable log levels with verbose mode support
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - HTTP headers (Authorization, Cookie, X-Api-Key, X-Goog-Api-Key)
//   - Secret values detected by pattern matching (Google API keys, JWTs)
//   - Session identifiers and authentication tokens
//
// Attributes named payload, image, data, frame or body are cut to a short
// prefix, and byte slices under those keys are logged as their length only.
// Scanned images may carry location metadata and must not end up in logs.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("classification request",
//	    "api_key", key,     // Logged as ***REDACTED***
//	    "image", dataURI,   // Truncated
//	)
package log

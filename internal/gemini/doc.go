// Package gemini implements the classification capability on top of the
// Google Gen AI SDK.
//
// The Adapter turns a provider-neutral classify.Prompt into a single
// GenerateContent call with JSON output constrained by a response schema,
// and returns the raw response text. It performs no retries: every Generate
// call is exactly one round trip.
//
// Traffic can be routed through a SOCKS5 proxy (for example a local Tor
// daemon) with Config.ProxyAddress.
package gemini

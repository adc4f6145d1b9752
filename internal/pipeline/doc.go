// Package pipeline runs a scan as a sequence of steps over a shared
// model.ScanReport: capture, metadata inspection, normalization,
// classification and verdict.
//
// Each step fills in its part of the report. The pipeline stops at the
// first failing step and records the error in the report. Classification
// never fails, so in practice only capture can stop a scan.
//
// BatchProcessor runs many scans concurrently with a bounded errgroup and
// keeps results in input order.
package pipeline

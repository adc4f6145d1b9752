// Package model defines the core data structures used throughout qrguard.
//
// This package contains the following main types:
//   - RiskLevel: The four verdict categories returned by the classifier
//   - ScanRequest: A sum type of ImagePayload and TextPayload
//   - ScanResult: The structured verdict for a single request
//   - FraudCase and QuizQuestion: Educational content records
//   - ScanReport: The per-submission record that flows through the pipeline
//
// Models live in their own package so that capture, classify, pipeline and
// report can share them without import cycles. All types serialize to JSON
// using the field names of the external classification schema.
package model

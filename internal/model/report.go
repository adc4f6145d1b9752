package model

import "time"

// MetadataFinding describes identifying metadata embedded in a submitted
// image, such as GPS coordinates in EXIF tags.
type MetadataFinding struct {
	// Tag is the EXIF tag name, e.g. "GPSLatitude".
	Tag string `json:"tag"`

	// Value is the formatted tag value.
	Value string `json:"value"`

	// Kind groups related tags: "gps", "serial", "camera" or "author".
	Kind string `json:"kind"`
}

// ScanReport records one submission as it moves through the scan pipeline.
// Each pipeline step fills in its part; the report is discarded once
// rendered.
type ScanReport struct {
	// Target is a human label for the submission: the text itself, the file
	// path, or the camera device.
	Target string `json:"target"`

	// Origin is the capture source that produced the request.
	Origin Origin `json:"origin"`

	// DateScanned is when the scan started.
	DateScanned time.Time `json:"date_scanned"`

	// Request is the captured input. It is not serialized because image
	// requests hold raw bytes.
	Request ScanRequest `json:"-"`

	// Payload is the normalized request.
	Payload *Payload `json:"payload,omitempty"`

	// Metadata lists identifying metadata found in image submissions.
	Metadata []MetadataFinding `json:"metadata,omitempty"`

	// Result is the classification verdict. It is nil only when an
	// earlier step (capture) failed.
	Result *ScanResult `json:"result,omitempty"`

	// Category is the presentation category derived from the result.
	Category string `json:"category,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Elapsed is the total pipeline duration.
	Elapsed time.Duration `json:"elapsed"`

	// Error is the error that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text, for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewScanReport creates a report for the given target and origin.
func NewScanReport(target string, origin Origin) *ScanReport {
	return &ScanReport{
		Target:      target,
		Origin:      origin,
		DateScanned: time.Now(),
	}
}

// Completed reports whether the scan produced a result.
func (r *ScanReport) Completed() bool {
	return r.Result != nil
}

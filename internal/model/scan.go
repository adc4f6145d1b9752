package model

import "strings"

// Origin identifies where a ScanRequest came from.
type Origin string

const (
	// OriginCamera is a still frame captured from a video device.
	OriginCamera Origin = "camera"

	// OriginFile is an image file selected by the user.
	OriginFile Origin = "file"

	// OriginManual is free text typed or pasted by the user.
	OriginManual Origin = "manual"
)

// ScanRequest is the input of a single classification.
// It is a closed sum type: the only implementations are ImagePayload and
// TextPayload, and consumers are expected to switch over both.
type ScanRequest interface {
	// Origin reports which capture source produced the request.
	Origin() Origin

	isScanRequest()
}

// ImagePayload carries encoded image bytes. The bytes may still be wrapped
// in an envelope such as a data URI; the normalizer strips it.
type ImagePayload struct {
	Data   []byte
	Source Origin
}

// Origin implements ScanRequest.
func (p ImagePayload) Origin() Origin {
	return p.Source
}

func (ImagePayload) isScanRequest() {}

// TextPayload carries free text, usually a URL decoded from a QR code.
type TextPayload struct {
	Text string
}

// Origin implements ScanRequest.
func (TextPayload) Origin() Origin {
	return OriginManual
}

func (TextPayload) isScanRequest() {}

// NewImageRequest creates an image request from the given origin.
// The data slice is copied so the request stays immutable.
func NewImageRequest(data []byte, origin Origin) ImagePayload {
	buf := make([]byte, len(data))
	copy(buf, data)
	return ImagePayload{Data: buf, Source: origin}
}

// NewTextRequest creates a manual text request.
func NewTextRequest(text string) TextPayload {
	return TextPayload{Text: text}
}

// ScanResult is the structured verdict for one ScanRequest.
// The JSON field names match the response schema of the classifier.
type ScanResult struct {
	// RiskLevel is always one of the four defined levels.
	RiskLevel RiskLevel `json:"riskLevel"`

	// Content is the decoded or observed payload, e.g. the URL in the QR code.
	Content string `json:"content"`

	// Summary is a short human label such as "Suspected Phishing Site".
	Summary string `json:"summary"`

	// Reasoning lists the reasons for the assessment, in order.
	Reasoning []string `json:"reasoning"`

	// SafetyTips lists actionable advice for this specific scan.
	SafetyTips []string `json:"safetyTips"`
}

// Clone returns a deep copy of the result.
func (r ScanResult) Clone() ScanResult {
	out := r
	out.Reasoning = append([]string(nil), r.Reasoning...)
	out.SafetyTips = append([]string(nil), r.SafetyTips...)
	return out
}

// Headline returns the summary, or the content when no summary was given.
func (r ScanResult) Headline() string {
	if s := strings.TrimSpace(r.Summary); s != "" {
		return s
	}
	return r.Content
}

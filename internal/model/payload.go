package model

// PayloadKind identifies which ScanRequest variant a Payload came from.
type PayloadKind string

const (
	// PayloadImage is raw encoded image bytes.
	PayloadImage PayloadKind = "image"

	// PayloadText is a plain string.
	PayloadText PayloadKind = "text"
)

// Payload is the canonical, envelope-free form of a ScanRequest that the
// classification client submits.
type Payload struct {
	Kind PayloadKind `json:"kind"`

	// Data holds the raw image bytes for PayloadImage.
	Data []byte `json:"-"`

	// MIMEType is the image MIME type for PayloadImage.
	MIMEType string `json:"mime_type,omitempty"`

	// Text holds the string for PayloadText.
	Text string `json:"text,omitempty"`

	// Digest is a short content digest used to correlate log lines.
	Digest string `json:"digest,omitempty"`
}

// Fingerprint returns the payload digest, or "-" when none was computed.
func (p Payload) Fingerprint() string {
	if p.Digest == "" {
		return "-"
	}
	return p.Digest
}

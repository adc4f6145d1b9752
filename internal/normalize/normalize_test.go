package normalize

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/nao1215/qrguard/internal/model"
)

// jpegBytes and pngBytes carry just enough of a file header to be sniffed.
var (
	jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01}
	pngBytes  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R'}
)

// TestNormalizeImage tests envelope stripping for image requests.
func TestNormalizeImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []byte
		wantData []byte
		wantMIME string
	}{
		{
			name:     "jpeg data URI is stripped",
			input:    []byte("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)),
			wantData: jpegBytes,
			wantMIME: "image/jpeg",
		},
		{
			name:     "png data URI is stripped",
			input:    []byte("data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)),
			wantData: pngBytes,
			wantMIME: "image/png",
		},
		{
			name:     "uppercase scheme and surrounding whitespace",
			input:    []byte("  DATA:image/png;BASE64," + base64.StdEncoding.EncodeToString(pngBytes) + "\n"),
			wantData: pngBytes,
			wantMIME: "image/png",
		},
		{
			name:     "bare base64 image is decoded",
			input:    []byte(base64.StdEncoding.EncodeToString(pngBytes)),
			wantData: pngBytes,
			wantMIME: "image/png",
		},
		{
			name:     "raw image bytes pass through",
			input:    jpegBytes,
			wantData: jpegBytes,
			wantMIME: "image/jpeg",
		},
		{
			name:     "sniffed type wins over declared type",
			input:    []byte("data:image/gif;base64," + base64.StdEncoding.EncodeToString(pngBytes)),
			wantData: pngBytes,
			wantMIME: "image/png",
		},
		{
			name:     "invalid base64 body passes through unchanged",
			input:    []byte("data:image/jpeg;base64,!!!not-base64!!!"),
			wantData: []byte("data:image/jpeg;base64,!!!not-base64!!!"),
			wantMIME: "image/jpeg",
		},
		{
			name:     "base64 text that is not an image passes through",
			input:    []byte(base64.StdEncoding.EncodeToString([]byte("just some plain words"))),
			wantData: []byte(base64.StdEncoding.EncodeToString([]byte("just some plain words"))),
			wantMIME: DefaultImageMIMEType,
		},
		{
			name:     "empty input falls back to default type",
			input:    []byte{},
			wantData: []byte{},
			wantMIME: DefaultImageMIMEType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(model.NewImageRequest(tt.input, model.OriginFile))

			if got.Kind != model.PayloadImage {
				t.Errorf("expected image payload, got %q", got.Kind)
			}
			if !bytes.Equal(got.Data, tt.wantData) {
				t.Errorf("data mismatch:\n got: %q\nwant: %q", got.Data, tt.wantData)
			}
			if got.MIMEType != tt.wantMIME {
				t.Errorf("expected MIME type %q, got %q", tt.wantMIME, got.MIMEType)
			}
		})
	}
}

// TestNormalizeText tests that text passes through exactly.
func TestNormalizeText(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"http://secure-login-paypal-verify.com.xyz/update",
		"  leading and trailing spaces  ",
		"data:image/png;base64,iVBORw0KGgo=",
		"",
		"日本語のテキスト",
	}

	for _, input := range inputs {
		got := Normalize(model.NewTextRequest(input))
		if got.Kind != model.PayloadText {
			t.Errorf("expected text payload for %q, got %q", input, got.Kind)
		}
		if got.Text != input {
			t.Errorf("expected %q to pass through, got %q", input, got.Text)
		}
		if got.Data != nil {
			t.Errorf("expected no image data for text payload")
		}
	}
}

// TestNormalizeIdempotent tests that normalizing the output again changes nothing.
func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		[]byte("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)),
		[]byte(base64.StdEncoding.EncodeToString(pngBytes)),
		// Double-wrapped: a data URI whose body is itself a data URI.
		[]byte("data:text/plain;base64," + base64.StdEncoding.EncodeToString(
			[]byte("data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngBytes)))),
		jpegBytes,
		[]byte("not an image at all"),
	}

	for _, input := range inputs {
		first := Normalize(model.NewImageRequest(input, model.OriginCamera))
		second := Normalize(model.NewImageRequest(first.Data, model.OriginCamera))

		if !bytes.Equal(first.Data, second.Data) {
			t.Errorf("not idempotent for %q:\n first: %q\nsecond: %q", input, first.Data, second.Data)
		}
		if first.Digest != second.Digest {
			t.Errorf("digest changed between passes: %s != %s", first.Digest, second.Digest)
		}
	}
}

// TestNormalizeDeterministic tests that the same input gives byte-identical output.
func TestNormalizeDeterministic(t *testing.T) {
	t.Parallel()

	input := []byte("data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes))

	a := Normalize(model.NewImageRequest(input, model.OriginFile))
	b := Normalize(model.NewImageRequest(input, model.OriginFile))

	if !bytes.Equal(a.Data, b.Data) || a.MIMEType != b.MIMEType || a.Digest != b.Digest {
		t.Errorf("expected identical payloads, got %+v and %+v", a, b)
	}
}

// TestDigest tests the digest format.
func TestDigest(t *testing.T) {
	t.Parallel()

	d := Digest([]byte("payload"))
	if len(d) != 16 {
		t.Errorf("expected 16 hex characters, got %d (%s)", len(d), d)
	}
	if d != Digest([]byte("payload")) {
		t.Error("expected digest to be deterministic")
	}
	if d == Digest([]byte("other")) {
		t.Error("expected different inputs to have different digests")
	}
}

package normalize

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/crypto/sha3"

	"github.com/nao1215/qrguard/internal/model"
)

// DefaultImageMIMEType is used when the image type can neither be read from
// the envelope nor sniffed from the bytes.
const DefaultImageMIMEType = "image/jpeg"

// dataURIPrefix starts every data URI (RFC 2397).
const dataURIPrefix = "data:"

// minBase64Length is the shortest bare base64 string considered an image.
// Shorter strings are far more likely to be plain text than a picture.
const minBase64Length = 16

// Normalize returns the canonical payload for req.
func Normalize(req model.ScanRequest) model.Payload {
	switch r := req.(type) {
	case model.ImagePayload:
		return normalizeImage(r.Data)
	case model.TextPayload:
		return model.Payload{
			Kind:   model.PayloadText,
			Text:   r.Text,
			Digest: Digest([]byte(r.Text)),
		}
	default:
		return model.Payload{Kind: model.PayloadText}
	}
}

// StripEnvelope removes any data URI or base64 wrapping from data and
// returns the raw bytes along with the MIME type declared by the outermost
// data URI, if any.
func StripEnvelope(data []byte) ([]byte, string) {
	declared := ""
	for {
		next, mimeType, ok := unwrap(data)
		if !ok {
			return data, declared
		}
		if declared == "" {
			declared = mimeType
		}
		data = next
	}
}

// Digest returns a short SHA3-256 hex digest of data.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// normalizeImage strips the envelope and resolves the MIME type.
func normalizeImage(data []byte) model.Payload {
	raw, declared := StripEnvelope(data)

	return model.Payload{
		Kind:     model.PayloadImage,
		Data:     raw,
		MIMEType: resolveMIMEType(raw, declared),
		Digest:   Digest(raw),
	}
}

// resolveMIMEType prefers the sniffed type, then the declared type, and
// falls back to DefaultImageMIMEType.
func resolveMIMEType(raw []byte, declared string) string {
	if len(raw) > 0 {
		sniffed := mimetype.Detect(raw).String()
		if isImageType(sniffed) {
			return baseType(sniffed)
		}
	}
	if isImageType(declared) {
		return baseType(declared)
	}
	return DefaultImageMIMEType
}

// unwrap removes one layer of envelope. It reports false when data has no
// envelope it can remove; every successful unwrap returns strictly fewer
// bytes than it was given.
func unwrap(data []byte) ([]byte, string, bool) {
	trimmed := bytes.TrimSpace(data)

	if hasDataURIPrefix(trimmed) {
		return unwrapDataURI(trimmed)
	}

	if decoded, ok := decodeBareBase64(trimmed); ok {
		return decoded, "", true
	}

	return nil, "", false
}

// hasDataURIPrefix reports whether data starts with "data:" in any case.
func hasDataURIPrefix(data []byte) bool {
	return len(data) >= len(dataURIPrefix) &&
		strings.EqualFold(string(data[:len(dataURIPrefix)]), dataURIPrefix)
}

// unwrapDataURI parses "data:[<mediatype>][;base64],<data>".
func unwrapDataURI(data []byte) ([]byte, string, bool) {
	comma := bytes.IndexByte(data, ',')
	if comma < 0 {
		return nil, "", false
	}

	header := string(data[len(dataURIPrefix):comma])
	body := data[comma+1:]

	params := strings.Split(header, ";")
	mimeType := ""
	if strings.Contains(params[0], "/") {
		mimeType = strings.ToLower(strings.TrimSpace(params[0]))
	}

	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
			break
		}
	}

	if isBase64 {
		decoded, err := decodeBase64(body)
		if err != nil {
			return nil, "", false
		}
		return decoded, mimeType, true
	}

	unescaped, err := url.PathUnescape(string(body))
	if err != nil {
		return nil, "", false
	}
	return []byte(unescaped), mimeType, true
}

// decodeBareBase64 decodes data when it is base64 text whose content sniffs
// as an image. Requiring an image keeps ordinary text from being decoded.
func decodeBareBase64(data []byte) ([]byte, bool) {
	if len(data) < minBase64Length || !isBase64Text(data) {
		return nil, false
	}

	decoded, err := decodeBase64(data)
	if err != nil || len(decoded) == 0 {
		return nil, false
	}

	if !isImageType(mimetype.Detect(decoded).String()) {
		return nil, false
	}
	return decoded, true
}

// decodeBase64 accepts padded, unpadded and URL-safe alphabets and ignores
// line breaks.
func decodeBase64(data []byte) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		default:
			return r
		}
	}, string(data))

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}

	var lastErr error
	for _, enc := range encodings {
		decoded, err := enc.DecodeString(cleaned)
		if err == nil {
			return decoded, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// isBase64Text reports whether every byte is in a base64 alphabet or is
// whitespace.
func isBase64Text(data []byte) bool {
	for _, c := range data {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+', c == '/', c == '=', c == '-', c == '_':
		case c == '\n', c == '\r', c == ' ', c == '\t':
		default:
			return false
		}
	}
	return true
}

// isImageType reports whether mimeType is an image/* type.
func isImageType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// baseType drops MIME parameters such as "; charset=utf-8".
func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

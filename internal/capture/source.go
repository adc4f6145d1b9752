package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/normalize"
)

// DefaultMaxImageSize is the largest image a FileSource reads.
const DefaultMaxImageSize int64 = 10 * 1024 * 1024

// StdinPath makes FileSource read from standard input.
const StdinPath = "-"

// Source produces one scan request.
type Source interface {
	Capture(ctx context.Context) (model.ScanRequest, error)
}

// TextSource returns manually entered text as is.
type TextSource struct {
	Text string
}

// Capture implements Source. Blank text is rejected.
func (s TextSource) Capture(_ context.Context) (model.ScanRequest, error) {
	if strings.TrimSpace(s.Text) == "" {
		return nil, ErrEmptyInput
	}
	return model.NewTextRequest(s.Text), nil
}

// FileSource reads an image file completely into memory.
type FileSource struct {
	// Path is the file to read. StdinPath reads Stdin instead.
	Path string

	// MaxSize limits the file size. Zero means DefaultMaxImageSize.
	MaxSize int64

	// Stdin is read when Path is StdinPath. Nil means os.Stdin.
	Stdin io.Reader
}

// Capture implements Source.
func (s FileSource) Capture(ctx context.Context) (model.ScanRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := s.MaxSize
	if limit <= 0 {
		limit = DefaultMaxImageSize
	}

	var r io.Reader
	if s.Path == StdinPath {
		r = s.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrImageTooLarge, s.label(), limit)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, s.label())
	}

	return model.NewImageRequest(data, model.OriginFile), nil
}

func (s FileSource) label() string {
	if s.Path == StdinPath {
		return "stdin"
	}
	return s.Path
}

// BytesSource wraps image bytes that are already in memory, such as an
// upload to the HTTP backend.
type BytesSource struct {
	Data []byte

	// Origin defaults to model.OriginFile.
	Origin model.Origin

	// MaxSize limits the decoded image size. Zero means
	// DefaultMaxImageSize.
	MaxSize int64
}

// Capture implements Source.
func (s BytesSource) Capture(ctx context.Context) (model.ScanRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := s.MaxSize
	if limit <= 0 {
		limit = DefaultMaxImageSize
	}
	if len(bytes.TrimSpace(s.Data)) == 0 {
		return nil, ErrEmptyInput
	}
	// Uploads may arrive as data URIs or base64, so the limit applies to
	// the decoded image.
	if raw, _ := normalize.StripEnvelope(s.Data); int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: upload is larger than %d bytes", ErrImageTooLarge, limit)
	}

	origin := s.Origin
	if origin == "" {
		origin = model.OriginFile
	}
	return model.NewImageRequest(s.Data, origin), nil
}

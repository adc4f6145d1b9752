package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/qrguard/internal/model"
)

// fakeCamera tracks how many streams are open.
type fakeCamera struct {
	mu       sync.Mutex
	frame    []byte
	frameErr error
	openErr  error
	opened   int
	released int
}

func (c *fakeCamera) Devices(_ context.Context) ([]Device, error) {
	return []Device{{ID: "fake0", Label: "Fake Camera", Path: "/dev/fake0"}}, nil
}

func (c *fakeCamera) Open(_ context.Context, sel Selector) (Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openErr != nil {
		return nil, &DeviceAccessError{Device: sel.DeviceID, Err: c.openErr}
	}
	c.opened++
	return &fakeStream{camera: c}, nil
}

func (c *fakeCamera) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened - c.released
}

func (c *fakeCamera) releases() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

type fakeStream struct {
	camera *fakeCamera
}

func (s *fakeStream) Frame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.camera.frameErr != nil {
		return nil, s.camera.frameErr
	}
	return s.camera.frame, nil
}

func (s *fakeStream) Close() error {
	s.camera.mu.Lock()
	defer s.camera.mu.Unlock()
	s.camera.released++
	return nil
}

// TestTextSource tests manual text capture.
func TestTextSource(t *testing.T) {
	t.Parallel()

	t.Run("returns text unchanged", func(t *testing.T) {
		t.Parallel()

		req, err := TextSource{Text: " https://example.com "}.Capture(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text, ok := req.(model.TextPayload)
		if !ok {
			t.Fatalf("expected TextPayload, got %T", req)
		}
		if text.Text != " https://example.com " {
			t.Errorf("text was altered: %q", text.Text)
		}
		if req.Origin() != model.OriginManual {
			t.Errorf("expected manual origin, got %q", req.Origin())
		}
	})

	t.Run("rejects blank text", func(t *testing.T) {
		t.Parallel()

		_, err := TextSource{Text: " \t\n"}.Capture(context.Background())
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})
}

// TestFileSource tests image file capture.
func TestFileSource(t *testing.T) {
	t.Parallel()

	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

	t.Run("reads a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "qr.jpg")
		if err := os.WriteFile(path, jpeg, 0o600); err != nil {
			t.Fatal(err)
		}

		req, err := FileSource{Path: path}.Capture(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		img, ok := req.(model.ImagePayload)
		if !ok {
			t.Fatalf("expected ImagePayload, got %T", req)
		}
		if !bytes.Equal(img.Data, jpeg) {
			t.Error("image bytes differ")
		}
		if img.Origin() != model.OriginFile {
			t.Errorf("expected file origin, got %q", img.Origin())
		}
	})

	t.Run("reads stdin", func(t *testing.T) {
		t.Parallel()

		req, err := FileSource{Path: StdinPath, Stdin: bytes.NewReader(jpeg)}.Capture(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(req.(model.ImagePayload).Data, jpeg) {
			t.Error("image bytes differ")
		}
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		t.Parallel()

		_, err := FileSource{Path: StdinPath, Stdin: bytes.NewReader(jpeg), MaxSize: 4}.Capture(context.Background())
		if !errors.Is(err, ErrImageTooLarge) {
			t.Errorf("expected ErrImageTooLarge, got %v", err)
		}
	})

	t.Run("rejects empty files", func(t *testing.T) {
		t.Parallel()

		_, err := FileSource{Path: StdinPath, Stdin: strings.NewReader("")}.Capture(context.Background())
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("reports missing files", func(t *testing.T) {
		t.Parallel()

		_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.png")}.Capture(context.Background())
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestBytesSource(t *testing.T) {
	t.Parallel()

	t.Run("copies data with the given origin", func(t *testing.T) {
		t.Parallel()

		data := []byte{0xff, 0xd8, 0xff}
		req, err := BytesSource{Data: data, Origin: model.OriginCamera}.Capture(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		img, ok := req.(model.ImagePayload)
		if !ok {
			t.Fatalf("expected ImagePayload, got %T", req)
		}
		if img.Origin() != model.OriginCamera {
			t.Errorf("expected camera origin, got %s", img.Origin())
		}
		data[0] = 0
		if img.Data[0] != 0xff {
			t.Error("request shares the caller's buffer")
		}
	})

	t.Run("defaults to file origin", func(t *testing.T) {
		t.Parallel()

		req, err := BytesSource{Data: []byte("abc")}.Capture(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Origin() != model.OriginFile {
			t.Errorf("expected file origin, got %s", req.Origin())
		}
	})

	t.Run("rejects empty and oversized data", func(t *testing.T) {
		t.Parallel()

		if _, err := (BytesSource{Data: []byte("  ")}).Capture(context.Background()); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
		if _, err := (BytesSource{Data: []byte("12345"), MaxSize: 4}).Capture(context.Background()); !errors.Is(err, ErrImageTooLarge) {
			t.Errorf("expected ErrImageTooLarge, got %v", err)
		}
	})

	t.Run("limit applies to the decoded image", func(t *testing.T) {
		t.Parallel()

		img := bytes.Repeat([]byte{0x89}, 90)
		uri := []byte("data:image/png;base64," + base64.StdEncoding.EncodeToString(img))

		if _, err := (BytesSource{Data: uri, MaxSize: 100}).Capture(context.Background()); err != nil {
			t.Errorf("expected a 90 byte image to fit a 100 byte limit, got %v", err)
		}
		if _, err := (BytesSource{Data: uri, MaxSize: 89}).Capture(context.Background()); !errors.Is(err, ErrImageTooLarge) {
			t.Errorf("expected ErrImageTooLarge, got %v", err)
		}
	})
}

// TestCameraSession tests that the device is released on every exit path.
func TestCameraSession(t *testing.T) {
	t.Parallel()

	t.Run("capture returns a frame and releases", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{frame: []byte{0xFF, 0xD8}}
		src := NewCameraSource(cam, RearFacing())

		req, err := src.Capture(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Origin() != model.OriginCamera {
			t.Errorf("expected camera origin, got %q", req.Origin())
		}
		if cam.live() != 0 {
			t.Errorf("expected device released, %d streams live", cam.live())
		}
	})

	t.Run("failed capture still releases", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{frameErr: errors.New("device busy")}
		src := NewCameraSource(cam, RearFacing())

		if _, err := src.Capture(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if cam.live() != 0 {
			t.Errorf("expected device released, %d streams live", cam.live())
		}
	})

	t.Run("cancelled capture still releases", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{frame: []byte{1}}
		src := NewCameraSource(cam, RearFacing())
		session, err := src.Start(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := session.Capture(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if !session.Released() || cam.live() != 0 {
			t.Error("expected device released")
		}
	})

	t.Run("close releases exactly once", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{frame: []byte{1}}
		src := NewCameraSource(cam, RearFacing())
		session, err := src.Start(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_ = session.Close() //nolint:errcheck // fake never fails
		_ = session.Close() //nolint:errcheck // fake never fails
		_ = src.Close()     //nolint:errcheck // fake never fails

		if cam.releases() != 1 {
			t.Errorf("expected 1 release, got %d", cam.releases())
		}
		if _, err := session.Capture(context.Background()); !errors.Is(err, ErrSessionClosed) {
			t.Errorf("expected ErrSessionClosed, got %v", err)
		}
	})

	t.Run("new session releases the previous one", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{frame: []byte{1}}
		src := NewCameraSource(cam, RearFacing())

		first, err := src.Start(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := src.Start(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !first.Released() {
			t.Error("expected first session released")
		}
		if cam.live() != 1 {
			t.Errorf("expected 1 live stream, got %d", cam.live())
		}
	})

	t.Run("source close releases the live session", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{frame: []byte{1}}
		src := NewCameraSource(cam, RearFacing())
		if _, err := src.Start(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := src.Close(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cam.live() != 0 {
			t.Errorf("expected no live stream, got %d", cam.live())
		}
	})

	t.Run("acquisition failure is a device access error", func(t *testing.T) {
		t.Parallel()

		cam := &fakeCamera{openErr: os.ErrPermission}
		src := NewCameraSource(cam, ByID("video0"))

		_, err := src.Capture(context.Background())
		if !errors.Is(err, ErrDeviceAccess) {
			t.Errorf("expected ErrDeviceAccess, got %v", err)
		}
		if !errors.Is(err, os.ErrPermission) {
			t.Errorf("expected wrapped os.ErrPermission, got %v", err)
		}
		var dae *DeviceAccessError
		if !errors.As(err, &dae) || dae.Device != "video0" {
			t.Errorf("expected DeviceAccessError for video0, got %v", err)
		}
	})
}

// TestSelector tests selector helpers.
func TestSelector(t *testing.T) {
	t.Parallel()

	if !RearFacing().IsRearFacing() {
		t.Error("RearFacing should be the rear-facing hint")
	}
	if ByID("video2").IsRearFacing() {
		t.Error("ByID should not be the rear-facing hint")
	}
}

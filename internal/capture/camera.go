package capture

import (
	"context"
	"sync"

	"github.com/nao1215/qrguard/internal/model"
)

// Device describes one capture device.
type Device struct {
	// ID selects the device, e.g. "video0".
	ID string `json:"id"`

	// Label is the human readable device name.
	Label string `json:"label"`

	// Path is the device node, e.g. "/dev/video0".
	Path string `json:"path"`
}

// Selector chooses a capture device. The zero value asks for the
// rear-facing camera, which on most systems means the default device.
type Selector struct {
	DeviceID string
}

// RearFacing returns the selector for the generic rear-facing hint.
func RearFacing() Selector {
	return Selector{}
}

// ByID returns a selector for a specific device.
func ByID(id string) Selector {
	return Selector{DeviceID: id}
}

// IsRearFacing reports whether s is the generic hint rather than a device ID.
func (s Selector) IsRearFacing() bool {
	return s.DeviceID == ""
}

// Camera enumerates and opens capture devices.
type Camera interface {
	// Devices lists the available capture devices.
	Devices(ctx context.Context) ([]Device, error)

	// Open acquires the selected device. Failures should be
	// *DeviceAccessError.
	Open(ctx context.Context, sel Selector) (Stream, error)
}

// Stream is an acquired capture device.
type Stream interface {
	// Frame grabs one still frame as encoded image bytes.
	Frame(ctx context.Context) ([]byte, error)

	// Close releases the device.
	Close() error
}

// CameraSource captures a still frame from a camera. At most one session
// is live at a time.
type CameraSource struct {
	camera   Camera
	selector Selector

	mu      sync.Mutex
	current *Session
}

// NewCameraSource creates a source that opens sel on camera.
func NewCameraSource(camera Camera, sel Selector) *CameraSource {
	return &CameraSource{camera: camera, selector: sel}
}

// Start acquires the device and returns a live session. Any session
// started earlier is released first.
func (c *CameraSource) Start(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.release() //nolint:errcheck // replaced session; acquisition below reports errors
		c.current = nil
	}

	stream, err := c.camera.Open(ctx, c.selector)
	if err != nil {
		return nil, err
	}

	c.current = &Session{stream: stream}
	return c.current, nil
}

// Capture implements Source: it starts a session and captures one frame.
func (c *CameraSource) Capture(ctx context.Context) (model.ScanRequest, error) {
	session, err := c.Start(ctx)
	if err != nil {
		return nil, err
	}
	return session.Capture(ctx)
}

// Close releases the live session, if any.
func (c *CameraSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	err := c.current.release()
	c.current = nil
	return err
}

// Session owns an acquired stream.
type Session struct {
	stream Stream

	once     sync.Once
	closeErr error
	mu       sync.Mutex
	released bool
}

// Capture grabs one frame and releases the device, whether or not the
// grab succeeded.
func (s *Session) Capture(ctx context.Context) (model.ScanRequest, error) {
	if s.Released() {
		return nil, ErrSessionClosed
	}
	defer s.release() //nolint:errcheck // release errors are reported by Close

	frame, err := s.stream.Frame(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewImageRequest(frame, model.OriginCamera), nil
}

// Close cancels the session and releases the device.
func (s *Session) Close() error {
	return s.release()
}

// Released reports whether the device has been released.
func (s *Session) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// release closes the stream exactly once.
func (s *Session) release() error {
	s.once.Do(func() {
		s.closeErr = s.stream.Close()
		s.mu.Lock()
		s.released = true
		s.mu.Unlock()
	})
	return s.closeErr
}

package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/nao1215/qrguard/internal/execx"
)

// DefaultFFmpegPath is the ffmpeg binary looked up in PATH.
const DefaultFFmpegPath = "ffmpeg"

const (
	defaultDevDir = "/dev"
	defaultSysDir = "/sys/class/video4linux"
)

// V4L2Camera captures frames from Video4Linux devices through ffmpeg.
type V4L2Camera struct {
	runner     execx.Runner
	ffmpegPath string
	devDir     string
	sysDir     string
}

// V4L2Option configures a V4L2Camera.
type V4L2Option func(*V4L2Camera)

// WithFFmpegPath sets the ffmpeg binary.
func WithFFmpegPath(path string) V4L2Option {
	return func(c *V4L2Camera) {
		if path != "" {
			c.ffmpegPath = path
		}
	}
}

// WithDeviceDirs overrides where device nodes and their sysfs entries are
// looked up.
func WithDeviceDirs(devDir, sysDir string) V4L2Option {
	return func(c *V4L2Camera) {
		c.devDir = devDir
		c.sysDir = sysDir
	}
}

// NewV4L2Camera creates a camera that runs ffmpeg through runner.
func NewV4L2Camera(runner execx.Runner, opts ...V4L2Option) *V4L2Camera {
	c := &V4L2Camera{
		runner:     runner,
		ffmpegPath: DefaultFFmpegPath,
		devDir:     defaultDevDir,
		sysDir:     defaultSysDir,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Devices implements Camera. Devices are sorted by ID.
func (c *V4L2Camera) Devices(_ context.Context) ([]Device, error) {
	paths, err := filepath.Glob(filepath.Join(c.devDir, "video*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list video devices: %w", err)
	}
	sort.Strings(paths)

	devices := make([]Device, 0, len(paths))
	for _, path := range paths {
		id := filepath.Base(path)
		devices = append(devices, Device{
			ID:    id,
			Label: c.label(id),
			Path:  path,
		})
	}
	return devices, nil
}

// label reads the driver-reported device name, falling back to the ID.
func (c *V4L2Camera) label(id string) string {
	data, err := os.ReadFile(filepath.Join(c.sysDir, id, "name"))
	if err != nil {
		return id
	}
	if name := strings.TrimSpace(string(data)); name != "" {
		return name
	}
	return id
}

// Open implements Camera. The rear-facing hint maps to the first device.
func (c *V4L2Camera) Open(ctx context.Context, sel Selector) (Stream, error) {
	device, err := c.resolve(ctx, sel)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(device.Path); err != nil {
		return nil, &DeviceAccessError{Device: device.ID, Err: err}
	}

	ffmpeg, err := c.runner.LookPath(c.ffmpegPath)
	if err != nil {
		return nil, &DeviceAccessError{Device: device.ID, Err: fmt.Errorf("ffmpeg not found: %w", err)}
	}

	return &v4l2Stream{runner: c.runner, ffmpeg: ffmpeg, device: device}, nil
}

func (c *V4L2Camera) resolve(ctx context.Context, sel Selector) (Device, error) {
	if !sel.IsRearFacing() {
		id := filepath.Base(sel.DeviceID)
		return Device{ID: id, Label: c.label(id), Path: filepath.Join(c.devDir, id)}, nil
	}

	devices, err := c.Devices(ctx)
	if err != nil {
		return Device{}, &DeviceAccessError{Err: err}
	}
	if len(devices) == 0 {
		return Device{}, &DeviceAccessError{Err: ErrNoDevice}
	}
	return devices[0], nil
}

// v4l2Stream grabs frames by running ffmpeg once per frame.
type v4l2Stream struct {
	runner execx.Runner
	ffmpeg string
	device Device

	mu     sync.Mutex
	closed bool
}

// Frame implements Stream.
func (s *v4l2Stream) Frame(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrSessionClosed
	}

	out, err := s.runner.Run(ctx, s.ffmpeg, frameArgs(s.device.Path)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &DeviceAccessError{Device: s.device.ID, Err: err}
	}
	if len(out) == 0 {
		return nil, &DeviceAccessError{Device: s.device.ID, Err: errors.New("device returned an empty frame")}
	}
	return out, nil
}

// Close implements Stream.
func (s *v4l2Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// frameArgs returns the ffmpeg arguments that write one MJPEG frame from
// path to stdout.
func frameArgs(path string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "video4linux2",
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	}
}

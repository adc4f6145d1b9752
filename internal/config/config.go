package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "qrguard"

	// DefaultModel is the Gemini model used for all requests.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout bounds a single request to the classification service.
	// Image analysis on the hosted model regularly takes several seconds.
	DefaultTimeout = 60 * time.Second

	// DefaultBatchSize is the number of concurrent classifications in --batch mode.
	DefaultBatchSize = 4

	// DefaultServerAddr is the listen address of the serve command.
	DefaultServerAddr = ":8080"

	// DefaultFFmpegPath is looked up in PATH.
	DefaultFFmpegPath = "ffmpeg"

	// DefaultMaxImageSize caps image files and request bodies.
	DefaultMaxImageSize = 10 << 20

	// PrimaryAPIKeyEnv is checked first for the Gemini API key.
	PrimaryAPIKeyEnv = "GEMINI_API_KEY"

	// FallbackAPIKeyEnv is checked when PrimaryAPIKeyEnv is unset.
	FallbackAPIKeyEnv = "API_KEY"
)

// Config holds all configuration options for qrguard.
// It is populated from defaults, the optional config file and CLI flags,
// in that order, and passed explicitly to the components that need it.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// Model is the Gemini model name.
	Model string

	// BaseURL overrides the Gemini endpoint. Empty means the SDK default.
	BaseURL string

	// ProxyAddress routes API traffic through a SOCKS5 proxy ("host:port"),
	// for example a local Tor daemon.
	ProxyAddress string

	// Timeout is the per-request timeout for the classification service.
	Timeout time.Duration

	// Verbose enables debug logging. When false only warnings and errors
	// are logged.
	Verbose bool

	// LogJSON selects the JSON log handler.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .qrguard is searched in the current directory, the home
	// directory and the XDG config directory.
	ConfigFilePath string

	// JSONReport and MarkdownReport select the report format.
	// They are mutually exclusive; neither means plain text.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// BatchSize is the number of concurrent classifications.
	BatchSize int

	// CameraDevice selects a capture device by ID. Empty means the
	// rear-facing hint.
	CameraDevice string

	// FFmpegPath is the ffmpeg binary used to grab camera frames.
	FFmpegPath string

	// MaxImageSize is the largest accepted image in bytes.
	MaxImageSize int64

	// ServerAddr is the listen address of the HTTP backend.
	ServerAddr string

	// DBDir is the directory of the case library database.
	// Defaults to the XDG data directory (~/.local/share/qrguard on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Model:        DefaultModel,
		Timeout:      DefaultTimeout,
		BatchSize:    DefaultBatchSize,
		FFmpegPath:   DefaultFFmpegPath,
		MaxImageSize: DefaultMaxImageSize,
		ServerAddr:   DefaultServerAddr,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for qrguard.
// On Linux: ~/.local/share/qrguard
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for qrguard.
// On Linux: ~/.config/qrguard
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return ErrMissingModel
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxImageSize <= 0 {
		return ErrInvalidMaxImageSize
	}

	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no API key is configured.
// Commands that never call the classification service skip this check.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ResolveAPIKey returns the first non-empty value of the given environment
// variables. lookup is usually os.LookupEnv. Empty names are skipped.
func ResolveAPIKey(lookup func(string) (string, bool), names ...string) string {
	for _, name := range names {
		if name == "" {
			continue
		}
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

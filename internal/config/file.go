package config

import "time"

// GeminiSection configures the classification service.
type GeminiSection struct {
	// Model overrides DefaultModel.
	Model string `yaml:"model,omitempty"`

	// BaseURL overrides the API endpoint.
	BaseURL string `yaml:"baseURL,omitempty"`

	// APIKeyEnv names an environment variable holding the API key.
	// It is checked before GEMINI_API_KEY and API_KEY. The key itself is
	// never stored in the file.
	APIKeyEnv string `yaml:"apiKeyEnv,omitempty"`

	// Proxy is a SOCKS5 proxy address for API traffic.
	Proxy string `yaml:"proxy,omitempty"`

	// Timeout is a duration string such as "45s".
	Timeout string `yaml:"timeout,omitempty"`
}

// CameraSection configures frame capture.
type CameraSection struct {
	// Device is the default capture device ID, for example "video0".
	Device string `yaml:"device,omitempty"`

	// FFmpegPath is the ffmpeg binary.
	FFmpegPath string `yaml:"ffmpegPath,omitempty"`
}

// ServerSection configures the HTTP backend.
type ServerSection struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty"`
}

// LibrarySection configures the local case library.
type LibrarySection struct {
	// Dir is the directory holding the database file. Defaults to the XDG
	// data directory.
	Dir string `yaml:"dir,omitempty"`
}

// File represents the structure of the .qrguard configuration file.
type File struct {
	Gemini  GeminiSection  `yaml:"gemini,omitempty"`
	Camera  CameraSection  `yaml:"camera,omitempty"`
	Server  ServerSection  `yaml:"server,omitempty"`
	Library LibrarySection `yaml:"library,omitempty"`
}

// Apply copies the non-empty file values into cfg. Values set later by CLI
// flags take precedence because flags are applied after the file.
func (f *File) Apply(cfg *Config) error {
	if f.Gemini.Model != "" {
		cfg.Model = f.Gemini.Model
	}
	if f.Gemini.BaseURL != "" {
		cfg.BaseURL = f.Gemini.BaseURL
	}
	if f.Gemini.Proxy != "" {
		cfg.ProxyAddress = f.Gemini.Proxy
	}
	if f.Gemini.Timeout != "" {
		d, err := time.ParseDuration(f.Gemini.Timeout)
		if err != nil {
			return ErrInvalidTimeout
		}
		cfg.Timeout = d
	}
	if f.Camera.Device != "" {
		cfg.CameraDevice = f.Camera.Device
	}
	if f.Camera.FFmpegPath != "" {
		cfg.FFmpegPath = f.Camera.FFmpegPath
	}
	if f.Server.Addr != "" {
		cfg.ServerAddr = f.Server.Addr
	}
	if f.Library.Dir != "" {
		cfg.DBDir = f.Library.Dir
	}
	return nil
}

// APIKeyEnvNames returns the environment variables to check for the API key,
// in order.
func (f *File) APIKeyEnvNames() []string {
	names := make([]string, 0, 3)
	if f != nil && f.Gemini.APIKeyEnv != "" {
		names = append(names, f.Gemini.APIKeyEnv)
	}
	return append(names, PrimaryAPIKeyEnv, FallbackAPIKeyEnv)
}

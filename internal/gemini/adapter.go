package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/nao1215/qrguard/internal/classify"
)

// DefaultModel is the multimodal model that supports JSON response schemas.
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds a single GenerateContent round trip.
const DefaultTimeout = 60 * time.Second

// responseMIMEType asks the model for JSON output.
const responseMIMEType = "application/json"

// Config holds the connection settings for the Adapter.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// Model is the model name, e.g. "gemini-2.5-flash".
	Model string

	// BaseURL overrides the API endpoint. Empty means the SDK default.
	BaseURL string

	// ProxyAddress routes traffic through a SOCKS5 proxy ("host:port").
	// Empty means a direct connection.
	ProxyAddress string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Adapter implements classify.Capability with the Gen AI SDK.
type Adapter struct {
	client *genai.Client
	model  string
}

var _ classify.Capability = (*Adapter)(nil)

// New creates an Adapter. It validates the configuration and builds the
// HTTP client but does not contact the API.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient, err := newHTTPClient(cfg.ProxyAddress, timeout)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Adapter{client: client, model: cfg.Model}, nil
}

// Model returns the configured model name.
func (a *Adapter) Model() string {
	return a.model
}

// Generate implements classify.Capability. The image part, if any, is sent
// before the instruction text.
func (a *Adapter) Generate(ctx context.Context, prompt classify.Prompt) (string, error) {
	parts := make([]*genai.Part, 0, 2)
	if prompt.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(prompt.Image.Data, prompt.Image.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt.Instruction))

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: responseMIMEType,
		ResponseSchema:   toSchema(prompt.Schema),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", a.model, err)
	}

	return resp.Text(), nil
}

// toSchema converts a provider-neutral schema to the SDK representation.
func toSchema(s *classify.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genai.Type(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Items:       toSchema(s.Items),
		Required:    s.Required,
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}

	return out
}

// newHTTPClient returns an HTTP client that optionally dials through a
// SOCKS5 proxy.
func newHTTPClient(proxyAddress string, timeout time.Duration) (*http.Client, error) {
	if proxyAddress == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	transport, err := newProxyTransport(proxyAddress)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

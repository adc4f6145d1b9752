package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/qrguard/internal/model"
)

// CaseBatchSize is the number of fraud cases requested per batch.
const CaseBatchSize = 5

// defaultImageMIMEType is used when ClassifyImage is given no MIME type.
const defaultImageMIMEType = "image/jpeg"

// Client submits payloads to a Capability. It holds no state between calls
// and is safe for concurrent use if the capability is.
type Client struct {
	capability Capability
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger that receives fallback diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client backed by capability.
func NewClient(capability Capability, opts ...Option) *Client {
	c := &Client{capability: capability}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Classify dispatches a normalized payload to ClassifyImage or ClassifyText.
func (c *Client) Classify(ctx context.Context, payload model.Payload) model.ScanResult {
	switch payload.Kind {
	case model.PayloadImage:
		return c.ClassifyImage(ctx, payload.Data, payload.MIMEType)
	case model.PayloadText:
		return c.ClassifyText(ctx, payload.Text)
	default:
		c.logger.WarnContext(ctx, "unsupported payload kind, using fallback", "kind", payload.Kind)
		return textFallback(payload.Text)()
	}
}

// ClassifyImage asks the capability to read the QR code in data and assess
// its content. It never fails: on any error the UNKNOWN fallback is returned.
func (c *Client) ClassifyImage(ctx context.Context, data []byte, mimeType string) model.ScanResult {
	if mimeType == "" {
		mimeType = defaultImageMIMEType
	}

	return orFallback(ctx, c.logger, "classify_image",
		func(ctx context.Context) (model.ScanResult, error) {
			if len(data) == 0 {
				return model.ScanResult{}, fmt.Errorf("%w: empty image", ErrEmptyInput)
			}
			text, err := c.generate(ctx, Prompt{
				Instruction: imageInstruction,
				Image:       &InlineImage{Data: data, MIMEType: mimeType},
				Schema:      scanResultSchema(),
			})
			if err != nil {
				return model.ScanResult{}, err
			}
			result, err := decodeScanResult(text)
			if err != nil {
				return model.ScanResult{}, err
			}
			c.logger.DebugContext(ctx, "image classified",
				"risk", result.RiskLevel,
				"bytes", len(data),
				"mime", mimeType,
			)
			return result, nil
		},
		imageFallback,
	)
}

// ClassifyText asks the capability to assess text, typically a URL. It never
// fails: on any error the UNKNOWN fallback echoing text is returned.
func (c *Client) ClassifyText(ctx context.Context, text string) model.ScanResult {
	return orFallback(ctx, c.logger, "classify_text",
		func(ctx context.Context) (model.ScanResult, error) {
			if strings.TrimSpace(text) == "" {
				return model.ScanResult{}, fmt.Errorf("%w: empty text", ErrEmptyInput)
			}
			resp, err := c.generate(ctx, Prompt{
				Instruction: textInstruction(text),
				Schema:      scanResultSchema(),
			})
			if err != nil {
				return model.ScanResult{}, err
			}
			result, err := decodeScanResult(resp)
			if err != nil {
				return model.ScanResult{}, err
			}
			c.logger.DebugContext(ctx, "text classified", "risk", result.RiskLevel)
			return result, nil
		},
		textFallback(text),
	)
}

// FetchFraudCases requests CaseBatchSize illustrative fraud cases. It
// returns an empty slice on any failure.
func (c *Client) FetchFraudCases(ctx context.Context) []model.FraudCase {
	return orFallback(ctx, c.logger, "fetch_fraud_cases",
		func(ctx context.Context) ([]model.FraudCase, error) {
			resp, err := c.generate(ctx, Prompt{
				Instruction: fraudCasesInstruction(CaseBatchSize),
				Schema:      fraudCaseSchema(),
			})
			if err != nil {
				return nil, err
			}
			return decodeFraudCases(resp, CaseBatchSize)
		},
		noCases,
	)
}

// FetchQuizQuestion requests one scenario question. ok is false on any
// failure.
func (c *Client) FetchQuizQuestion(ctx context.Context) (question model.QuizQuestion, ok bool) {
	type maybeQuestion struct {
		question model.QuizQuestion
		ok       bool
	}

	got := orFallback(ctx, c.logger, "fetch_quiz_question",
		func(ctx context.Context) (maybeQuestion, error) {
			resp, err := c.generate(ctx, Prompt{
				Instruction: quizInstruction,
				Schema:      quizQuestionSchema(),
			})
			if err != nil {
				return maybeQuestion{}, err
			}
			q, err := decodeQuizQuestion(resp)
			if err != nil {
				return maybeQuestion{}, err
			}
			return maybeQuestion{question: q, ok: true}, nil
		},
		func() maybeQuestion { return maybeQuestion{} },
	)

	return got.question, got.ok
}

// generate calls the capability and classifies its failures.
func (c *Client) generate(ctx context.Context, prompt Prompt) (string, error) {
	text, err := c.capability.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

package classify

import (
	"context"
	"log/slog"

	"github.com/nao1215/qrguard/internal/model"
)

// orFallback runs call and returns its value. On error it logs the failure
// class and the original error, then returns fallback() instead.
func orFallback[T any](
	ctx context.Context,
	logger *slog.Logger,
	op string,
	call func(context.Context) (T, error),
	fallback func() T,
) T {
	value, err := call(ctx)
	if err != nil {
		logger.WarnContext(ctx, "classification call failed, using fallback",
			"op", op,
			"class", failureClass(err),
			"error", err,
		)
		return fallback()
	}
	return value
}

// imageFallback is returned when an image cannot be classified.
func imageFallback() model.ScanResult {
	return model.ScanResult{
		RiskLevel:  model.RiskUnknown,
		Content:    "Error reading code",
		Summary:    "Analysis Failed",
		Reasoning:  []string{"The image could not be analyzed. Make sure the QR code is sharp and fully visible."},
		SafetyTips: []string{"Scan again with better lighting, or type the link in manually."},
	}
}

// textFallback is returned when text cannot be classified. The submitted
// text is echoed back as the content.
func textFallback(text string) func() model.ScanResult {
	return func() model.ScanResult {
		return model.ScanResult{
			RiskLevel:  model.RiskUnknown,
			Content:    text,
			Summary:    "Analysis Error",
			Reasoning:  []string{"The classification service could not process the request."},
			SafetyTips: []string{"Check your internet connection and try again. Do not open the link until it has been checked."},
		}
	}
}

// noCases is returned when a case batch cannot be fetched.
func noCases() []model.FraudCase {
	return []model.FraudCase{}
}

package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nao1215/qrguard/internal/model"
)

// minQuizOptions is the smallest option count accepted for a quiz question.
const minQuizOptions = 2

// rawScanResult mirrors model.ScanResult with pointer fields so that absent
// and null properties can be told apart from empty ones.
type rawScanResult struct {
	RiskLevel  *string   `json:"riskLevel"`
	Content    *string   `json:"content"`
	Summary    *string   `json:"summary"`
	Reasoning  *[]string `json:"reasoning"`
	SafetyTips *[]string `json:"safetyTips"`
}

// rawQuizQuestion mirrors model.QuizQuestion for shape checks.
type rawQuizQuestion struct {
	Question     *string   `json:"question"`
	Options      *[]string `json:"options"`
	CorrectIndex *int      `json:"correctIndex"`
	Explanation  *string   `json:"explanation"`
}

// decodeScanResult checks that text is a ScanResult-shaped JSON object.
func decodeScanResult(text string) (model.ScanResult, error) {
	var raw rawScanResult
	if err := unmarshalResponse(text, &raw); err != nil {
		return model.ScanResult{}, err
	}

	switch {
	case raw.RiskLevel == nil:
		return model.ScanResult{}, missingField("riskLevel")
	case raw.Content == nil:
		return model.ScanResult{}, missingField("content")
	case raw.Summary == nil:
		return model.ScanResult{}, missingField("summary")
	case raw.Reasoning == nil:
		return model.ScanResult{}, missingField("reasoning")
	case raw.SafetyTips == nil:
		return model.ScanResult{}, missingField("safetyTips")
	}

	level, err := model.ParseRiskLevel(*raw.RiskLevel)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return model.ScanResult{
		RiskLevel:  level,
		Content:    *raw.Content,
		Summary:    *raw.Summary,
		Reasoning:  *raw.Reasoning,
		SafetyTips: *raw.SafetyTips,
	}, nil
}

// decodeFraudCases checks that text is an array of exactly want cases with
// unique, non-empty IDs.
func decodeFraudCases(text string, want int) ([]model.FraudCase, error) {
	var cases []model.FraudCase
	if err := unmarshalResponse(text, &cases); err != nil {
		return nil, err
	}

	if len(cases) != want {
		return nil, fmt.Errorf("%w: expected %d cases, got %d", ErrMalformedResponse, want, len(cases))
	}

	seen := make(map[string]bool, len(cases))
	for i, c := range cases {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: case %d has no id", ErrMalformedResponse, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate case id %q", ErrMalformedResponse, id)
		}
		seen[id] = true
	}

	return cases, nil
}

// decodeQuizQuestion checks that text is a QuizQuestion whose correctIndex
// addresses one of its options.
func decodeQuizQuestion(text string) (model.QuizQuestion, error) {
	var raw rawQuizQuestion
	if err := unmarshalResponse(text, &raw); err != nil {
		return model.QuizQuestion{}, err
	}

	switch {
	case raw.Question == nil || strings.TrimSpace(*raw.Question) == "":
		return model.QuizQuestion{}, missingField("question")
	case raw.Options == nil:
		return model.QuizQuestion{}, missingField("options")
	case raw.CorrectIndex == nil:
		return model.QuizQuestion{}, missingField("correctIndex")
	}

	q := model.QuizQuestion{
		Question:     *raw.Question,
		Options:      *raw.Options,
		CorrectIndex: *raw.CorrectIndex,
	}
	if raw.Explanation != nil {
		q.Explanation = *raw.Explanation
	}

	if len(q.Options) < minQuizOptions {
		return model.QuizQuestion{}, fmt.Errorf("%w: expected at least %d options, got %d",
			ErrMalformedResponse, minQuizOptions, len(q.Options))
	}
	if !q.ValidIndex(q.CorrectIndex) {
		return model.QuizQuestion{}, fmt.Errorf("%w: correctIndex %d out of range for %d options",
			ErrMalformedResponse, q.CorrectIndex, len(q.Options))
	}

	return q, nil
}

// unmarshalResponse decodes the JSON response text into v.
func unmarshalResponse(text string, v any) error {
	body := stripCodeFence(strings.TrimSpace(text))
	if body == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// stripCodeFence removes a surrounding Markdown code fence such as
// ```json ... ```, which some models add even in JSON mode.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		first := strings.TrimSpace(inner[:nl])
		if first == "" || !strings.ContainsAny(first, "{[") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}

// missingField reports a required property absent from the response.
func missingField(name string) error {
	return fmt.Errorf("%w: missing field %q", ErrMalformedResponse, name)
}

package classify

import "github.com/nao1215/qrguard/internal/model"

// scanResultSchema constrains responses to the model.ScanResult shape.
func scanResultSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"riskLevel": {
				Type: TypeString,
				Enum: model.RiskLevelStrings(),
			},
			"content": {
				Type:        TypeString,
				Description: "The decoded text or URL found in the QR code",
			},
			"summary": {
				Type:        TypeString,
				Description: "A short title for the result, e.g. 'Safe Official Website' or 'Suspected Phishing Site'",
			},
			"reasoning": {
				Type:        TypeArray,
				Items:       &Schema{Type: TypeString},
				Description: "Reasons for the risk assessment",
			},
			"safetyTips": {
				Type:        TypeArray,
				Items:       &Schema{Type: TypeString},
				Description: "Actionable advice for the user based on this scan",
			},
		},
		Required: []string{"riskLevel", "content", "summary", "reasoning", "safetyTips"},
	}
}

// fraudCaseSchema constrains responses to an array of model.FraudCase.
func fraudCaseSchema() *Schema {
	return &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"id":          {Type: TypeString},
				"title":       {Type: TypeString},
				"description": {Type: TypeString},
				"lossAmount":  {Type: TypeString},
				"technique":   {Type: TypeString},
				"prevention":  {Type: TypeString},
			},
			Required: []string{"id", "title", "description", "lossAmount", "technique", "prevention"},
		},
	}
}

// quizQuestionSchema constrains responses to a single model.QuizQuestion.
func quizQuestionSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"question": {Type: TypeString},
			"options": {
				Type:  TypeArray,
				Items: &Schema{Type: TypeString},
			},
			"correctIndex": {
				Type:        TypeInteger,
				Description: "0-based index of the correct answer",
			},
			"explanation": {Type: TypeString},
		},
		Required: []string{"question", "options", "correctIndex", "explanation"},
	}
}

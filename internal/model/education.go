package model

// FraudCase is an illustrative QR fraud case study.
// Records come from the external generator and are only checked for shape.
type FraudCase struct {
	// ID is unique within one batch.
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// LossAmount is free text, e.g. "$1,200".
	LossAmount string `json:"lossAmount"`
	Technique  string `json:"technique"`
	Prevention string `json:"prevention"`
}

// QuizQuestion is a multiple-choice scenario question.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`

	// CorrectIndex is the 0-based index of the correct option.
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
}

// ValidIndex reports whether i addresses one of the options.
func (q QuizQuestion) ValidIndex(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// CorrectOption returns the text of the correct option, or "" when
// CorrectIndex is out of range.
func (q QuizQuestion) CorrectOption() string {
	if !q.ValidIndex(q.CorrectIndex) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

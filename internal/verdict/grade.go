package verdict

import "github.com/nao1215/qrguard/internal/model"

// Outcome is the result of grading one quiz answer.
type Outcome struct {
	// Correct reports whether the chosen option is the right one.
	Correct bool `json:"correct"`

	// Choice is the index the user picked.
	Choice int `json:"choice"`

	// CorrectIndex is the index of the right option.
	CorrectIndex int `json:"correctIndex"`

	// CorrectOption is the text of the right option.
	CorrectOption string `json:"correctOption"`

	// Explanation is the question's explanation.
	Explanation string `json:"explanation"`
}

// Grade compares choice with the question's correct index. Choices outside
// the option range are incorrect.
func Grade(q model.QuizQuestion, choice int) Outcome {
	return Outcome{
		Correct:       q.ValidIndex(choice) && choice == q.CorrectIndex,
		Choice:        choice,
		CorrectIndex:  q.CorrectIndex,
		CorrectOption: q.CorrectOption(),
		Explanation:   q.Explanation,
	}
}

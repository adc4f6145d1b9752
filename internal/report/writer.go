package report

import (
	"io"

	"github.com/nao1215/qrguard/internal/model"
)

// Writer renders qrguard output in one format.
type Writer interface {
	// Write outputs a single scan report.
	Write(report *model.ScanReport) (int, error)

	// WriteBatch outputs several scan reports with a summary.
	WriteBatch(reports []*model.ScanReport) (int, error)

	// WriteCases outputs a batch of fraud case studies.
	WriteCases(cases []model.FraudCase) (int, error)

	// WriteQuiz outputs a quiz question without revealing the answer.
	WriteQuiz(question model.QuizQuestion) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write implements Writer. It stops on the first error.
func (m *MultiWriter) Write(report *model.ScanReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(report) })
}

// WriteBatch implements Writer.
func (m *MultiWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteBatch(reports) })
}

// WriteCases implements Writer.
func (m *MultiWriter) WriteCases(cases []model.FraudCase) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteCases(cases) })
}

// WriteQuiz implements Writer.
func (m *MultiWriter) WriteQuiz(question model.QuizQuestion) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteQuiz(question) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// RiskCounts tallies scan reports by risk level. Failed counts reports
// without a result.
type RiskCounts struct {
	Safe    int `json:"safe"`
	Warning int `json:"warning"`
	Danger  int `json:"danger"`
	Unknown int `json:"unknown"`
	Failed  int `json:"failed"`
}

func countRisks(reports []*model.ScanReport) RiskCounts {
	var c RiskCounts
	for _, r := range reports {
		if r == nil || !r.Completed() {
			c.Failed++
			continue
		}
		switch r.Result.RiskLevel {
		case model.RiskSafe:
			c.Safe++
		case model.RiskWarning:
			c.Warning++
		case model.RiskDanger:
			c.Danger++
		default:
			c.Unknown++
		}
	}
	return c
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

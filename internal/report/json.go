package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/verdict"
)

// JSONWriter outputs machine-readable JSON.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent       bool
	indentPrefix string
	indentString string

	// version, when set, wraps scan reports in a JSONReport.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion wraps scan reports with the tool version.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps scan reports with output metadata.
type JSONReport struct {
	// Version is the qrguard version that generated the report.
	Version string `json:"version"`

	// Report is set for single scans.
	Report *model.ScanReport `json:"report,omitempty"`

	// Reports is set for batch scans.
	Reports []*model.ScanReport `json:"reports,omitempty"`

	// Summary tallies batch results by risk level.
	Summary *RiskCounts `json:"summary,omitempty"`
}

// Write outputs one scan report.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	if w.version == "" {
		return w.writeJSON(report)
	}
	return w.writeJSON(&JSONReport{Version: w.version, Report: report})
}

// WriteBatch outputs all reports and a tally.
func (w *JSONWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	counts := countRisks(reports)
	return w.writeJSON(&JSONReport{Version: w.version, Reports: reports, Summary: &counts})
}

// WriteCases outputs the cases as a JSON array.
func (w *JSONWriter) WriteCases(cases []model.FraudCase) (int, error) {
	if cases == nil {
		cases = []model.FraudCase{}
	}
	return w.writeJSON(cases)
}

// WriteQuiz outputs the full question, including the answer, for tools.
func (w *JSONWriter) WriteQuiz(question model.QuizQuestion) (int, error) {
	return w.writeJSON(question)
}

// WriteOutcome outputs the result of grading an answer.
func (w *JSONWriter) WriteOutcome(outcome verdict.Outcome) (int, error) {
	return w.writeJSON(outcome)
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/verdict"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text for terminals.
type SimpleWriter struct {
	baseWriter

	// color wraps the verdict badge in ANSI escape codes.
	color bool

	// verbose adds origin, digest, and timing details.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables ANSI colored verdict badges.
func WithColor(color bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.color = color
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one scan report.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder
	w.writeReport(&sb, report)
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs each report followed by a tally.
func (w *SimpleWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	var sb strings.Builder
	for _, r := range reports {
		if r != nil {
			w.writeReport(&sb, r)
		}
	}

	c := countRisks(reports)
	writeBanner(&sb, "BATCH SUMMARY")
	fmt.Fprintf(&sb, "  Scanned: %d\n", len(reports))
	fmt.Fprintf(&sb, "  Safe:    %d\n", c.Safe)
	fmt.Fprintf(&sb, "  Warning: %d\n", c.Warning)
	fmt.Fprintf(&sb, "  Danger:  %d\n", c.Danger)
	fmt.Fprintf(&sb, "  Unknown: %d\n", c.Unknown)
	fmt.Fprintf(&sb, "  Failed:  %d\n", c.Failed)
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.ScanReport) {
	writeBanner(sb, "QR SCAN RESULT")

	fmt.Fprintf(sb, "Target:   %s\n", report.Target)
	if w.verbose {
		fmt.Fprintf(sb, "Origin:   %s\n", report.Origin)
		fmt.Fprintf(sb, "Scanned:  %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST"))
		if report.Payload != nil {
			fmt.Fprintf(sb, "Payload:  %s %s\n", report.Payload.Kind, report.Payload.Fingerprint())
		}
		fmt.Fprintf(sb, "Elapsed:  %s\n", report.Elapsed.Round(1e6))
	}

	if !report.Completed() {
		fmt.Fprintf(sb, "Status:   ERROR - %s\n\n", report.ErrorMessage)
		return
	}

	result := report.Result
	p := verdict.PresentResult(*result)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  %s  %s\n", p.Badge(w.color), p.Headline)
	if result.Content != "" {
		fmt.Fprintf(sb, "  Content: %s\n", result.Content)
	}
	sb.WriteString("\n")

	writeSection(sb, "WHY", result.Reasoning, "  - ")
	writeSection(sb, "SAFETY TIPS", result.SafetyTips, "  * ")

	if len(report.Metadata) > 0 {
		writeRule(sb, "IMAGE METADATA")
		sb.WriteString("  The submitted image carries identifying metadata:\n")
		for _, m := range report.Metadata {
			fmt.Fprintf(sb, "  [%s] %s: %s\n", m.Kind, m.Tag, truncateString(m.Value, 50))
		}
		sb.WriteString("\n")
	}
}

// WriteCases outputs a case batch.
func (w *SimpleWriter) WriteCases(cases []model.FraudCase) (int, error) {
	var sb strings.Builder
	writeBanner(&sb, "QR FRAUD CASE FILES")

	if len(cases) == 0 {
		sb.WriteString("No cases available. Try again later.\n\n")
		return io.WriteString(w.output, sb.String())
	}

	for i, c := range cases {
		writeRule(&sb, fmt.Sprintf("%d. %s", i+1, c.Title))
		fmt.Fprintf(&sb, "  Technique:  %s\n", c.Technique)
		fmt.Fprintf(&sb, "  Loss:       %s\n", c.LossAmount)
		fmt.Fprintf(&sb, "  %s\n", c.Description)
		fmt.Fprintf(&sb, "  Prevention: %s\n\n", c.Prevention)
	}

	return io.WriteString(w.output, sb.String())
}

// WriteQuiz outputs a question with numbered options.
func (w *SimpleWriter) WriteQuiz(question model.QuizQuestion) (int, error) {
	var sb strings.Builder
	writeBanner(&sb, "SECURITY QUIZ")

	fmt.Fprintf(&sb, "%s\n\n", question.Question)
	for i, opt := range question.Options {
		fmt.Fprintf(&sb, "  %d) %s\n", i+1, opt)
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// WriteOutcome outputs the result of grading an answer.
func (w *SimpleWriter) WriteOutcome(outcome verdict.Outcome) (int, error) {
	var sb strings.Builder
	if outcome.Correct {
		sb.WriteString("Correct!\n")
	} else {
		fmt.Fprintf(&sb, "Incorrect. The right answer is %d) %s\n", outcome.CorrectIndex+1, outcome.CorrectOption)
	}
	if outcome.Explanation != "" {
		fmt.Fprintf(&sb, "\n%s\n", outcome.Explanation)
	}
	return io.WriteString(w.output, sb.String())
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := (ruleWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeRule(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string, items []string, bullet string) {
	if len(items) == 0 {
		return
	}
	writeRule(sb, title)
	for _, item := range items {
		sb.WriteString(bullet)
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/verdict"
)

// MarkdownWriter outputs GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one scan report.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("QR Scan Report")
	md.PlainText("")
	w.writeReport(md, report)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteBatch outputs a summary with a risk distribution chart, then every
// report.
func (w *MarkdownWriter) WriteBatch(reports []*model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("QR Batch Scan Report")
	md.PlainText("")

	c := countRisks(reports)
	md.Table(markdown.TableSet{
		Header: []string{"Risk", "Count"},
		Rows: [][]string{
			{"🟢 Safe", strconv.Itoa(c.Safe)},
			{"🟡 Warning", strconv.Itoa(c.Warning)},
			{"🔴 Danger", strconv.Itoa(c.Danger)},
			{"⚪ Unknown", strconv.Itoa(c.Unknown)},
			{"❌ Failed", strconv.Itoa(c.Failed)},
			{"**Total**", "**" + strconv.Itoa(len(reports)) + "**"},
		},
	})
	md.PlainText("")

	if len(reports) > 0 {
		w.writePieChart(md, c)
	}

	switch {
	case c.Danger > 0:
		md.Cautionf("%d of %d scanned codes are dangerous. Do not open them.", c.Danger, len(reports))
	case c.Warning > 0:
		md.Warningf("%d of %d scanned codes look suspicious.", c.Warning, len(reports))
	case c.Unknown+c.Failed > 0:
		md.Importantf("%d code(s) could not be assessed.", c.Unknown+c.Failed)
	default:
		md.Tip("No threats detected.")
	}
	md.PlainText("")

	for i, r := range reports {
		if r == nil {
			continue
		}
		md.H2(fmt.Sprintf("%d. %s", i+1, truncateString(r.Target, 60)))
		md.PlainText("")
		w.writeReport(md, r)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, c RiskCounts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Risk Distribution"),
		piechart.WithShowData(true),
	)

	for _, slice := range []struct {
		label string
		n     int
	}{
		{"Safe", c.Safe},
		{"Warning", c.Warning},
		{"Danger", c.Danger},
		{"Unknown", c.Unknown},
		{"Failed", c.Failed},
	} {
		if slice.n > 0 {
			chart.LabelAndIntValue(slice.label, uint64(slice.n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.ScanReport) {
	rows := [][]string{
		{"Target", "`" + report.Target + "`"},
		{"Origin", string(report.Origin)},
		{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
	}
	if !report.Completed() {
		rows = append(rows, []string{"Status", "❌ Error - " + report.ErrorMessage})
		md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
		md.PlainText("")
		return
	}

	result := report.Result
	p := verdict.PresentResult(*result)
	rows = append(rows,
		[]string{"Risk Level", riskEmoji(p.Category) + " " + p.Label},
		[]string{"Content", "`" + result.Content + "`"},
	)
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	switch p.Category {
	case verdict.CategoryDanger:
		md.Cautionf("%s", p.Headline)
	case verdict.CategoryWarning:
		md.Warningf("%s", p.Headline)
	case verdict.CategorySafe:
		md.Tip(p.Headline)
	default:
		md.Note(p.Headline)
	}
	md.PlainText("")

	if len(result.Reasoning) > 0 {
		md.H3("Why")
		md.PlainText("")
		md.BulletList(result.Reasoning...)
		md.PlainText("")
	}
	if len(result.SafetyTips) > 0 {
		md.H3("Safety Tips")
		md.PlainText("")
		md.BulletList(result.SafetyTips...)
		md.PlainText("")
	}

	if len(report.Metadata) > 0 {
		md.H3("Image Metadata")
		md.PlainText("")
		md.Importantf("The image carries %d identifying metadata tag(s) that were sent for analysis.", len(report.Metadata))
		md.PlainText("")
		metaRows := make([][]string, len(report.Metadata))
		for i, m := range report.Metadata {
			metaRows[i] = []string{m.Kind, m.Tag, truncateString(m.Value, 50)}
		}
		md.Table(markdown.TableSet{Header: []string{"Kind", "Tag", "Value"}, Rows: metaRows})
		md.PlainText("")
	}
}

// WriteCases outputs a case batch as a summary table and details.
func (w *MarkdownWriter) WriteCases(cases []model.FraudCase) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("QR Fraud Case Files")
	md.PlainText("")

	if len(cases) == 0 {
		md.Note("No cases available. Try again later.")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(cases))
	for i, c := range cases {
		rows[i] = []string{c.Title, c.Technique, c.LossAmount}
	}
	md.Table(markdown.TableSet{Header: []string{"Case", "Technique", "Loss"}, Rows: rows})
	md.PlainText("")

	for _, c := range cases {
		md.H2(c.Title)
		md.PlainText("")
		md.PlainText(c.Description)
		md.PlainText("")
		md.Tip("Prevention: " + c.Prevention)
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteQuiz outputs a question with the answer folded in a details block.
func (w *MarkdownWriter) WriteQuiz(question model.QuizQuestion) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Security Quiz")
	md.PlainText("")
	md.PlainText(question.Question)
	md.PlainText("")

	rows := make([][]string, len(question.Options))
	for i, opt := range question.Options {
		rows[i] = []string{strconv.Itoa(i + 1), opt}
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Option"}, Rows: rows})
	md.PlainText("")

	if answer := question.CorrectOption(); answer != "" {
		md.Details("Answer", fmt.Sprintf("%d) %s. %s", question.CorrectIndex+1, answer, question.Explanation))
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteOutcome outputs the result of grading an answer.
func (w *MarkdownWriter) WriteOutcome(outcome verdict.Outcome) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H2("Your Answer")
	md.PlainText("")
	if outcome.Correct {
		md.Tip("Correct!")
	} else {
		md.Cautionf("Incorrect. The right answer is %d) %s", outcome.CorrectIndex+1, outcome.CorrectOption)
	}
	md.PlainText("")
	if outcome.Explanation != "" {
		md.PlainText(outcome.Explanation)
		md.PlainText("")
	}
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [qrguard](https://github.com/nao1215/qrguard)*")
}

func riskEmoji(c verdict.Category) string {
	switch c {
	case verdict.CategorySafe:
		return "🟢"
	case verdict.CategoryWarning:
		return "🟡"
	case verdict.CategoryDanger:
		return "🔴"
	default:
		return "⚪"
	}
}

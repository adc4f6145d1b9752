package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/verdict"
)

func dangerReport() *model.ScanReport {
	r := model.NewScanReport("http://secure-login-paypal-verify.com.xyz/update", model.OriginManual)
	r.DateScanned = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	r.Result = &model.ScanResult{
		RiskLevel:  model.RiskDanger,
		Content:    "http://secure-login-paypal-verify.com.xyz/update",
		Summary:    "Suspected Phishing Site",
		Reasoning:  []string{"Brand name in an unrelated domain"},
		SafetyTips: []string{"Do not enter credentials"},
	}
	r.Category = "danger"
	return r
}

func failedReport() *model.ScanReport {
	r := model.NewScanReport("video0", model.OriginCamera)
	r.Error = errors.New("camera access failed: permission denied")
	r.ErrorMessage = r.Error.Error()
	return r
}

func sampleCases() []model.FraudCase {
	return []model.FraudCase{
		{ID: "c1", Title: "Parking Meter Stickers", Description: "Fake stickers on meters.", LossAmount: "$1,200", Technique: "Sticker overlay", Prevention: "Use the official app"},
		{ID: "c2", Title: "Crypto Airdrop", Description: "QR code drains wallets.", LossAmount: "$40,000", Technique: "Wallet drainer", Prevention: "Never sign unknown transactions"},
	}
}

func sampleQuestion() model.QuizQuestion {
	return model.QuizQuestion{
		Question:     "A QR sticker covers the code on a parking meter. What do you do?",
		Options:      []string{"Scan it", "Pay in the official app", "Call the number"},
		CorrectIndex: 1,
		Explanation:  "Stickers can hide the real code.",
	}
}

// TestSimpleWriter tests terminal output.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a verdict", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(dangerReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"QR SCAN RESULT",
			"[!!] Danger",
			"Suspected Phishing Site",
			"Brand name in an unrelated domain",
			"Do not enter credentials",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Contains(out, "\x1b[") {
			t.Error("plain output should not contain escape codes")
		}
	})

	t.Run("colors the badge when asked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithColor(true)).Write(dangerReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\x1b[31m") {
			t.Error("expected red badge")
		}
	})

	t.Run("writes failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(failedReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - camera access failed") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("writes metadata warnings", func(t *testing.T) {
		t.Parallel()

		r := dangerReport()
		r.Metadata = []model.MetadataFinding{{Tag: "GPSLatitude", Value: "35/1", Kind: "gps"}}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[gps] GPSLatitude") {
			t.Errorf("missing metadata in output: %s", buf.String())
		}
	})

	t.Run("writes a batch summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteBatch([]*model.ScanReport{dangerReport(), failedReport()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Danger:  1") || !strings.Contains(out, "Failed:  1") {
			t.Errorf("unexpected summary: %s", out)
		}
	})

	t.Run("writes cases", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteCases(sampleCases()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "1. Parking Meter Stickers") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("writes empty cases", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteCases(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No cases available") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("writes a quiz without the answer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteQuiz(sampleQuestion()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "2) Pay in the official app") {
			t.Errorf("unexpected output: %s", out)
		}
		if strings.Contains(out, "Stickers can hide the real code.") {
			t.Error("quiz output should not reveal the explanation")
		}
	})

	t.Run("writes outcomes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		if _, err := w.WriteOutcome(verdict.Grade(sampleQuestion(), 0)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Incorrect. The right answer is 2) Pay in the official app") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}

// TestJSONWriter tests JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(dangerReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Target string `json:"target"`
			Result struct {
				RiskLevel string `json:"riskLevel"`
			} `json:"result"`
			Category string `json:"category"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Result.RiskLevel != "DANGER" || got.Category != "danger" {
			t.Errorf("unexpected JSON: %s", buf.String())
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("wraps with version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("v1.2.3"), WithPrettyPrint()).Write(dangerReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Version != "v1.2.3" || got.Report == nil {
			t.Errorf("unexpected wrapper: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})

	t.Run("writes batch summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteBatch([]*model.ScanReport{dangerReport(), failedReport()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got.Reports) != 2 || got.Summary == nil || got.Summary.Danger != 1 || got.Summary.Failed != 1 {
			t.Errorf("unexpected batch JSON: %s", buf.String())
		}
	})

	t.Run("writes empty cases as an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteCases(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected [], got %q", buf.String())
		}
	})

	t.Run("writes a quiz", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteQuiz(sampleQuestion()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got model.QuizQuestion
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.CorrectIndex != 1 || len(got.Options) != 3 {
			t.Errorf("unexpected quiz JSON: %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(dangerReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"# QR Scan Report", "CAUTION", "Suspected Phishing Site", "Safety Tips"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("writes a batch with chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteBatch([]*model.ScanReport{dangerReport(), failedReport()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "```mermaid") {
			t.Error("expected mermaid chart")
		}
		if !strings.Contains(out, "Risk Distribution") {
			t.Error("expected chart title")
		}
	})

	t.Run("writes cases", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteCases(sampleCases()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "## Crypto Airdrop") || !strings.Contains(out, "Prevention: Use the official app") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("folds the quiz answer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteQuiz(sampleQuestion()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "<details>") {
			t.Errorf("expected details block: %s", buf.String())
		}
	})
}

// TestMultiWriter tests fan-out.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

	n, err := mw.Write(dangerReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != a.Len()+b.Len() {
		t.Errorf("expected %d bytes, got %d", a.Len()+b.Len(), n)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

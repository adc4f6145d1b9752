package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrguard/internal/config"
	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/report"
	"github.com/nao1215/qrguard/internal/verdict"
)

var (
	errInvalidAnswer    = errors.New("--answer must be 1 or greater")
	errQuizUnavailable  = errors.New("no quiz question is available right now, try again later")
	errAnswerOutOfRange = errors.New("answer is not one of the listed options")
)

// NewQuizCmd creates the quiz command.
func NewQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Answer a QR security quiz question",
		Long: `Quiz fetches one multiple choice question about QR code security from
Gemini, asks for an answer and explains the right one.

Answers are recorded in the local case library so progress can be tracked.

Examples:
  # Answer interactively
  qrguard quiz

  # Answer non-interactively with option 2
  qrguard quiz --answer 2

  # Print the question with its answer as JSON
  qrguard quiz --json`,
		Args: cobra.NoArgs,
		RunE: runQuizCmd,
	}

	cmd.Flags().IntP("answer", "a", 0, "Answer with the given option number (1-based)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request to Gemini")
	addReportFlags(cmd)

	return cmd
}

// runQuizCmd executes the quiz command.
func runQuizCmd(cmd *cobra.Command, _ []string) error {
	answer, err := cmd.Flags().GetInt("answer")
	if err != nil {
		return err
	}
	answered := cmd.Flags().Changed("answer")
	if answered && answer < 1 {
		return errInvalidAnswer
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	client, err := newClassifier(ctx, cfg, logger)
	if err != nil {
		return err
	}

	q, ok := client.FetchQuizQuestion(ctx)
	if !ok {
		return errQuizUnavailable
	}

	out, closeOut, err := openOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // report errors are returned by the writer

	// In JSON mode the question carries its answer, and a graded answer
	// replaces the question so the output stays one document.
	if !cfg.JSONReport || !answered {
		if _, err := newWriter(cfg, out).WriteQuiz(q); err != nil {
			return err
		}
		if cfg.JSONReport {
			return nil
		}
	}

	if !answered {
		answer, err = promptAnswer(cmd.InOrStdin(), cmd.ErrOrStderr(), len(q.Options))
		if err != nil {
			return err
		}
	}

	outcome := verdict.Grade(q, answer-1)
	if err := writeOutcome(cfg, out, outcome); err != nil {
		return err
	}

	recordAnswer(ctx, cmd.ErrOrStderr(), cfg, logger, q, outcome)
	return nil
}

// promptAnswer reads a 1-based option number, asking again on bad input
// until the input ends.
func promptAnswer(in io.Reader, prompt io.Writer, options int) (int, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(prompt, "Your answer [1-%d]: ", options)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, errAnswerOutOfRange
		}
		n, err := parseAnswer(scanner.Text(), options)
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(prompt, err)
	}
}

// parseAnswer parses a 1-based option number.
func parseAnswer(s string, options int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > options {
		return 0, errAnswerOutOfRange
	}
	return n, nil
}

// writeOutcome prints the grading result in the configured format.
func writeOutcome(cfg *config.Config, out io.Writer, outcome verdict.Outcome) error {
	var err error
	switch {
	case cfg.JSONReport:
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteOutcome(outcome)
	case cfg.MarkdownReport:
		_, err = report.NewMarkdownWriter(out).WriteOutcome(outcome)
	default:
		_, err = report.NewSimpleWriter(out, report.WithColor(useColor(out))).WriteOutcome(outcome)
	}
	return err
}

// recordAnswer stores the answer and prints running stats. The library is
// optional, so failures are only logged.
func recordAnswer(ctx context.Context, w io.Writer, cfg *config.Config, logger *slog.Logger, q model.QuizQuestion, outcome verdict.Outcome) {
	lib, err := openLibrary(cfg)
	if err != nil {
		logger.Warn("quiz answer not recorded", "error", err)
		return
	}
	defer lib.Close()

	if err := lib.RecordQuizAnswer(ctx, q, outcome.Choice, outcome.Correct); err != nil {
		logger.Warn("quiz answer not recorded", "error", err)
		return
	}

	stats, err := lib.QuizStats(ctx)
	if err != nil {
		logger.Warn("failed to read quiz stats", "error", err)
		return
	}
	writeLine(w, "\nScore: %d/%d correct (%.0f%%)", stats.Correct, stats.Answered, stats.Accuracy()*100)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrguard/internal/config"
	"github.com/nao1215/qrguard/internal/database"
)

// latestBatch selects the most recently saved batch for --saved.
const latestBatch = "latest"

// NewCasesCmd creates the cases command.
func NewCasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Show QR fraud case studies",
		Long: `Cases asks Gemini for five illustrative QR code fraud cases, such as fake
parking meter stickers or payment redirection, with the technique used and
how to avoid it.

Fetched batches can be saved to the local case library and read again
without an API key.

Examples:
  # Fetch a new batch
  qrguard cases

  # Fetch and save to the case library
  qrguard cases --save

  # List saved batches
  qrguard cases --list

  # Show the latest saved batch, or a specific one
  qrguard cases --saved
  qrguard cases --saved 3f2b8c1e-...`,
		Args: cobra.NoArgs,
		RunE: runCasesCmd,
	}

	cmd.Flags().Bool("save", false, "Save the fetched batch to the case library")
	cmd.Flags().String("saved", "", "Show a saved batch by ID (default: latest)")
	cmd.Flags().Lookup("saved").NoOptDefVal = latestBatch
	cmd.Flags().Bool("list", false, "List saved batches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request to Gemini")
	addReportFlags(cmd)

	return cmd
}

// runCasesCmd executes the cases command.
func runCasesCmd(cmd *cobra.Command, _ []string) error {
	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}
	saved, err := cmd.Flags().GetString("saved")
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if save && (saved != "" || list) {
		return errors.New("--save cannot be combined with --saved or --list")
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

	if list {
		return listSavedBatches(ctx, cmd, cfg)
	}

	out, closeOut, err := openOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // report errors are returned by the writer

	w := newWriter(cfg, out)

	if saved != "" {
		lib, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer lib.Close()

		var batch *database.CaseBatch
		if saved == latestBatch {
			batch, err = lib.LatestCaseBatch(ctx)
		} else {
			batch, err = lib.GetCaseBatch(ctx, saved)
		}
		if err != nil {
			return err
		}
		_, err = w.WriteCases(batch.Cases)
		return err
	}

	client, err := newClassifier(ctx, cfg, logger)
	if err != nil {
		return err
	}

	cases := client.FetchFraudCases(ctx)
	if _, err := w.WriteCases(cases); err != nil {
		return err
	}

	if !save {
		return nil
	}
	if len(cases) == 0 {
		writeLine(cmd.ErrOrStderr(), "Nothing to save: no cases were fetched.")
		return nil
	}

	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer lib.Close()

	id, err := lib.SaveCaseBatch(ctx, cases)
	if err != nil {
		return err
	}
	writeLine(cmd.ErrOrStderr(), "Saved %d cases as batch %s", len(cases), id)
	return nil
}

// listSavedBatches prints the saved batches, newest first.
func listSavedBatches(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer lib.Close()

	batches, err := lib.ListCaseBatches(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.JSONReport {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(batches)
	}

	if len(batches) == 0 {
		writeLine(out, "The case library is empty. Run 'qrguard cases --save' to add a batch.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSAVED\tCASES")
	for _, b := range batches {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04"), b.Count)
	}
	return tw.Flush()
}

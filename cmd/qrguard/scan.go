package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrguard/internal/capture"
	"github.com/nao1215/qrguard/internal/classify"
	"github.com/nao1215/qrguard/internal/config"
	"github.com/nao1215/qrguard/internal/execx"
	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/pipeline"
	"github.com/nao1215/qrguard/internal/report"
)

var (
	// errNoInput is returned when scan is given nothing to scan.
	errNoInput = errors.New("nothing to scan: pass text, --file or --camera")

	// errConflictingInputs is returned when more than one input kind is given.
	errConflictingInputs = errors.New("conflicting inputs: use only one of text arguments, --file or --camera")
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [text...]",
		Short: "Check a QR code payload for fraud",
		Long: `Scan sends a QR code payload to Gemini and prints the risk verdict.

The payload is one of:
- Text decoded from a QR code, usually a URL (positional arguments)
- An image containing the QR code (--file, "-" reads stdin)
- A still frame from a video device (--camera)

Each text argument or file is scanned separately; several are scanned
concurrently and followed by a summary.

Images are sent as is. If an image carries EXIF metadata such as GPS
coordinates or a device serial number, qrguard lists it in the report.

Examples:
  # Check a URL
  qrguard scan "http://secure-login-paypal-verify.com.xyz/update"

  # Check several URLs, four at a time
  qrguard scan --batch 4 https://example.com http://bit.ly/xyz

  # Check a photo or screenshot of a QR code
  qrguard scan --file qr.jpg

  # Capture a frame from the first camera
  qrguard scan --camera

  # Capture from a specific device and write Markdown
  qrguard scan --camera --device video2 --markdown -o report.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringSliceP("file", "f", nil,
		"Image file(s) containing a QR code (\"-\" reads stdin)")
	cmd.Flags().Bool("camera", false,
		"Capture a still frame from a video device")
	cmd.Flags().StringP("device", "d", "",
		"Capture device ID (default: first device, see 'qrguard devices')")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request to Gemini")
	addReportFlags(cmd)

	return cmd
}

// scanInput describes what the user asked to scan.
type scanInput struct {
	texts  []string
	files  []string
	camera bool
}

// parseScanInput reads the input flags and checks that exactly one input
// kind was given.
func parseScanInput(cmd *cobra.Command, args []string) (scanInput, error) {
	files, err := cmd.Flags().GetStringSlice("file")
	if err != nil {
		return scanInput{}, err
	}
	camera, err := cmd.Flags().GetBool("camera")
	if err != nil {
		return scanInput{}, err
	}

	in := scanInput{files: files, camera: camera}
	for _, arg := range args {
		if strings.TrimSpace(arg) != "" {
			in.texts = append(in.texts, arg)
		}
	}

	kinds := 0
	for _, given := range []bool{len(in.texts) > 0, len(in.files) > 0, in.camera} {
		if given {
			kinds++
		}
	}
	switch kinds {
	case 0:
		return scanInput{}, errNoInput
	case 1:
		return in, nil
	default:
		return scanInput{}, errConflictingInputs
	}
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	in, err := parseScanInput(cmd, args)
	if err != nil {
		return err
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

	out, closeOut, err := openOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // report errors are returned by the writer

	w := newWriter(cfg, out)

	switch {
	case in.camera:
		return runCameraScan(ctx, cfg, client, w, logger)
	case len(in.files) > 0:
		return runTargets(ctx, cfg, w, logger, model.OriginFile, in.files, func(path string) capture.Source {
			return capture.FileSource{Path: path, MaxSize: cfg.MaxImageSize, Stdin: cmd.InOrStdin()}
		}, client)
	default:
		return runTargets(ctx, cfg, w, logger, model.OriginManual, in.texts, func(text string) capture.Source {
			return capture.TextSource{Text: text}
		}, client)
	}
}

// runTargets scans one or more targets. A single target is scanned
// directly and a capture failure is returned; several targets go through
// the batch processor and failures are recorded in their reports.
func runTargets(
	ctx context.Context,
	cfg *config.Config,
	w report.Writer,
	logger *slog.Logger,
	origin model.Origin,
	targets []string,
	source func(target string) capture.Source,
	client *classify.Client,
) error {
	factory := func(target string) *pipeline.Pipeline {
		return pipeline.ScanPipeline(source(target), client, pipeline.WithLogger(logger))
	}

	if len(targets) == 1 {
		scanReport := model.NewScanReport(targets[0], origin)
		if err := factory(targets[0]).Execute(ctx, scanReport); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		_, err := w.Write(scanReport)
		return err
	}

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithOrigin(origin),
	)

	reports, batchErr := bp.ProcessBatch(ctx, targets)
	if _, err := w.WriteBatch(reports); err != nil {
		return err
	}
	return batchErr
}

// runCameraScan captures one frame and scans it. The camera is released
// before the verdict is printed.
func runCameraScan(ctx context.Context, cfg *config.Config, client *classify.Client, w report.Writer, logger *slog.Logger) error {
	camera := capture.NewV4L2Camera(execx.OSRunner{}, capture.WithFFmpegPath(cfg.FFmpegPath))

	sel := capture.RearFacing()
	target := "camera"
	if cfg.CameraDevice != "" {
		sel = capture.ByID(cfg.CameraDevice)
		target = "camera " + cfg.CameraDevice
	}

	source := capture.NewCameraSource(camera, sel)
	defer source.Close() //nolint:errcheck // session already released after capture

	scanReport := model.NewScanReport(target, model.OriginCamera)
	p := pipeline.ScanPipeline(source, client, pipeline.WithLogger(logger))
	if err := p.Execute(ctx, scanReport); err != nil {
		return fmt.Errorf("camera scan failed: %w", err)
	}
	if err := source.Close(); err != nil {
		logger.Warn("failed to release camera", "error", err)
	}

	_, err := w.Write(scanReport)
	return err
}

// writeLine is a small helper for status output that ignores write errors.
func writeLine(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}

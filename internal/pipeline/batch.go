package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/qrguard/internal/model"
)

// DefaultConcurrency is the default number of concurrent scans.
const DefaultConcurrency = 4

// Factory builds a fresh pipeline for one target.
type Factory func(target string) *Pipeline

// BatchProcessor scans many targets concurrently.
type BatchProcessor struct {
	factory     Factory
	origin      model.Origin
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithOrigin sets the origin recorded on reports before capture runs.
func WithOrigin(origin model.Origin) BatchOption {
	return func(b *BatchProcessor) {
		b.origin = origin
	}
}

// NewBatchProcessor creates a BatchProcessor. factory is called once per
// target so no pipeline state is shared between scans.
func NewBatchProcessor(factory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		origin:      model.OriginManual,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans all targets and returns one report per target, in
// input order. A failed scan is recorded in its report and does not stop
// the others. The returned error is only set when ctx is cancelled; targets
// that never started then get a report carrying that error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.ScanReport, error) {
	reports := make([]*model.ScanReport, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(report *model.ScanReport, index int) {
		reports[index] = report
	})

	for i, report := range reports {
		if report != nil {
			continue
		}
		report = model.NewScanReport(targets[i], bp.origin)
		if err != nil {
			report.Error = err
			report.ErrorMessage = err.Error()
		}
		reports[i] = report
	}

	return reports, err
}

// ProcessBatchWithCallback scans all targets and calls callback with each
// report as it completes. callback runs on the scanning goroutine and must
// be safe for concurrent use unless it only writes to its own index.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(report *model.ScanReport, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total", len(targets),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			report := model.NewScanReport(target, bp.origin)
			if err := bp.factory(target).Execute(ctx, report); err != nil {
				bp.logger.Warn("scan failed",
					"target", target,
					"error", err,
				)
			}

			callback(report, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total", len(targets),
		"elapsed", time.Since(start),
	)

	return err
}

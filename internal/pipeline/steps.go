package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/qrguard/internal/capture"
	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/normalize"
	"github.com/nao1215/qrguard/internal/verdict"
)

// Step names.
const (
	StepCapture         = "capture"
	StepInspectMetadata = "inspect-metadata"
	StepNormalize       = "normalize"
	StepClassify        = "classify"
	StepVerdict         = "verdict"
)

var (
	// ErrNoRequest is returned by steps that run before anything was
	// captured.
	ErrNoRequest = errors.New("no scan request captured")

	// ErrNoPayload is returned by classify when normalize has not run.
	ErrNoPayload = errors.New("scan request was not normalized")

	// ErrNoResult is returned by verdict when classify has not run.
	ErrNoResult = errors.New("scan request was not classified")
)

// Classifier turns a normalized payload into a verdict. It must not fail;
// *classify.Client satisfies it.
type Classifier interface {
	Classify(ctx context.Context, payload model.Payload) model.ScanResult
}

// CaptureStep reads one request from a capture source.
type CaptureStep struct {
	source capture.Source
}

// NewCaptureStep creates a capture step.
func NewCaptureStep(source capture.Source) *CaptureStep {
	return &CaptureStep{source: source}
}

// Name returns the step name.
func (s *CaptureStep) Name() string {
	return StepCapture
}

// Do executes the capture step.
func (s *CaptureStep) Do(ctx context.Context, report *model.ScanReport) error {
	req, err := s.source.Capture(ctx)
	if err != nil {
		return err
	}
	report.Request = req
	report.Origin = req.Origin()
	return nil
}

// InspectMetadataStep lists identifying EXIF metadata in image requests.
// Text requests are skipped.
type InspectMetadataStep struct {
	logger *slog.Logger
}

// NewInspectMetadataStep creates a metadata inspection step.
func NewInspectMetadataStep(logger *slog.Logger) *InspectMetadataStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &InspectMetadataStep{logger: logger}
}

// Name returns the step name.
func (s *InspectMetadataStep) Name() string {
	return StepInspectMetadata
}

// Do executes the metadata inspection step.
func (s *InspectMetadataStep) Do(ctx context.Context, report *model.ScanReport) error {
	if report.Request == nil {
		return ErrNoRequest
	}

	img, ok := report.Request.(model.ImagePayload)
	if !ok {
		return nil
	}

	raw, _ := normalize.StripEnvelope(img.Data)
	report.Metadata = capture.InspectMetadata(raw)
	if len(report.Metadata) > 0 {
		s.logger.WarnContext(ctx, "image carries identifying metadata",
			"target", report.Target,
			"findings", len(report.Metadata),
		)
	}
	return nil
}

// NormalizeStep converts the request to its canonical payload.
type NormalizeStep struct{}

// NewNormalizeStep creates a normalize step.
func NewNormalizeStep() *NormalizeStep {
	return &NormalizeStep{}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return StepNormalize
}

// Do executes the normalize step.
func (s *NormalizeStep) Do(_ context.Context, report *model.ScanReport) error {
	if report.Request == nil {
		return ErrNoRequest
	}
	payload := normalize.Normalize(report.Request)
	report.Payload = &payload
	return nil
}

// ClassifyStep submits the payload to a Classifier.
type ClassifyStep struct {
	classifier Classifier
	logger     *slog.Logger
}

// NewClassifyStep creates a classify step.
func NewClassifyStep(classifier Classifier, logger *slog.Logger) *ClassifyStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyStep{classifier: classifier, logger: logger}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return StepClassify
}

// Do executes the classify step.
func (s *ClassifyStep) Do(ctx context.Context, report *model.ScanReport) error {
	if report.Payload == nil {
		return ErrNoPayload
	}

	s.logger.DebugContext(ctx, "classifying payload",
		"kind", report.Payload.Kind,
		"digest", report.Payload.Fingerprint(),
	)

	result := s.classifier.Classify(ctx, *report.Payload)
	report.Result = &result
	return nil
}

// VerdictStep derives the presentation category from the result.
type VerdictStep struct{}

// NewVerdictStep creates a verdict step.
func NewVerdictStep() *VerdictStep {
	return &VerdictStep{}
}

// Name returns the step name.
func (s *VerdictStep) Name() string {
	return StepVerdict
}

// Do executes the verdict step.
func (s *VerdictStep) Do(_ context.Context, report *model.ScanReport) error {
	if report.Result == nil {
		return ErrNoResult
	}
	report.Category = verdict.ForResult(*report.Result).String()
	return nil
}

// ScanPipeline creates the standard scan pipeline for source.
func ScanPipeline(source capture.Source, classifier Classifier, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewCaptureStep(source),
		NewInspectMetadataStep(p.logger),
		NewNormalizeStep(),
		NewClassifyStep(classifier, p.logger),
		NewVerdictStep(),
	)
	return p
}

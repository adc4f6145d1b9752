package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nao1215/qrguard/internal/capture"
	"github.com/nao1215/qrguard/internal/model"
	"github.com/nao1215/qrguard/internal/pipeline"
	"github.com/nao1215/qrguard/internal/verdict"
)

// Service is the classification backend. *classify.Client satisfies it.
type Service interface {
	Classify(ctx context.Context, payload model.Payload) model.ScanResult
	FetchFraudCases(ctx context.Context) []model.FraudCase
	FetchQuizQuestion(ctx context.Context) (model.QuizQuestion, bool)
}

// QuizRecorder stores graded answers. *database.Library satisfies it.
type QuizRecorder interface {
	RecordQuizAnswer(ctx context.Context, question model.QuizQuestion, choice int, correct bool) error
}

type handlers struct {
	logger   *slog.Logger
	service  Service
	quiz     QuizRecorder
	maxBody  int64
	maxImage int64
}

func newHandlers(logger *slog.Logger, deps Dependencies) *handlers {
	return &handlers{
		logger:   logger,
		service:  deps.Service,
		quiz:     deps.Quiz,
		maxBody:  deps.MaxBodyBytes,
		maxImage: deps.MaxImageBytes,
	}
}

type scanTextRequest struct {
	Text string `json:"text"`
}

type scanImageRequest struct {
	Image  string `json:"image"`
	Origin string `json:"origin,omitempty"`
}

// scanResponse is a ScanResult plus the presentation the client renders.
type scanResponse struct {
	model.ScanResult
	Category string                  `json:"category"`
	Label    string                  `json:"label"`
	Headline string                  `json:"headline"`
	Metadata []model.MetadataFinding `json:"metadata,omitempty"`
}

type gradeRequest struct {
	Question *model.QuizQuestion `json:"question"`
	Choice   *int                `json:"choice"`
}

func (h *handlers) scanText(w http.ResponseWriter, r *http.Request) {
	var req scanTextRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	h.runScan(w, r, truncateTarget(req.Text), capture.TextSource{Text: req.Text})
}

// scanImage accepts either a JSON body with a data URI or base64 image, or
// a raw image body with an image/* content type.
func (h *handlers) scanImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var data []byte
	origin := model.OriginCamera
	if strings.HasPrefix(r.Header.Get("Content-Type"), "image/") {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			h.badBody(w, err)
			return
		}
		data = raw
		origin = model.OriginFile
	} else {
		var req scanImageRequest
		if !h.decode(w, r, &req) {
			return
		}
		data = []byte(req.Image)
		if model.Origin(req.Origin) == model.OriginFile {
			origin = model.OriginFile
		}
	}

	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	h.runScan(w, r, "upload", capture.BytesSource{Data: data, Origin: origin, MaxSize: h.maxImage})
}

func (h *handlers) runScan(w http.ResponseWriter, r *http.Request, target string, source capture.Source) {
	report := model.NewScanReport(target, "")
	p := pipeline.ScanPipeline(source, h.service,
		pipeline.WithLogger(h.logger.With("request_id", RequestID(r.Context()))))

	if err := p.Execute(r.Context(), report); err != nil || !report.Completed() {
		switch {
		case errors.Is(err, context.Canceled):
		case errors.Is(err, capture.ErrImageTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, report.ErrorMessage)
		default:
			writeError(w, http.StatusBadRequest, report.ErrorMessage)
		}
		return
	}

	pres := verdict.PresentResult(*report.Result)
	respondJSON(w, http.StatusOK, scanResponse{
		ScanResult: *report.Result,
		Category:   pres.Category.String(),
		Label:      pres.Label,
		Headline:   pres.Headline,
		Metadata:   report.Metadata,
	})
}

func (h *handlers) listCases(w http.ResponseWriter, r *http.Request) {
	cases := h.service.FetchFraudCases(r.Context())
	if cases == nil {
		cases = []model.FraudCase{}
	}
	respondJSON(w, http.StatusOK, cases)
}

func (h *handlers) quizQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := h.service.FetchQuizQuestion(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (h *handlers) gradeQuiz(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Question == nil || req.Choice == nil {
		writeError(w, http.StatusBadRequest, "question and choice are required")
		return
	}
	if len(req.Question.Options) < 2 || !req.Question.ValidIndex(req.Question.CorrectIndex) {
		writeError(w, http.StatusBadRequest, "question is malformed")
		return
	}

	outcome := verdict.Grade(*req.Question, *req.Choice)

	if h.quiz != nil {
		if err := h.quiz.RecordQuizAnswer(r.Context(), *req.Question, *req.Choice, outcome.Correct); err != nil {
			h.logger.WarnContext(r.Context(), "failed to record quiz answer",
				"request_id", RequestID(r.Context()),
				"error", err,
			)
		}
	}

	respondJSON(w, http.StatusOK, outcome)
}

// decode reads a size-limited JSON body into v and reports success. On
// failure the error response is already written.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.badBody(w, err)
		return false
	}
	return true
}

func (h *handlers) badBody(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "malformed request body")
}

func truncateTarget(s string) string {
	const limit = 80
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/handler/http/requestid"
	"summary-lab/internal/handler/http/respond"
	"summary-lab/internal/report"
	"summary-lab/internal/usecase/summarize"
)

// Runner runs the summarization pipeline. Implemented by summarize.Service.
type Runner interface {
	Run(ctx context.Context, req entity.InputRequest) (*entity.SummaryResult, error)
	RunText(ctx context.Context, content string, source entity.InputSource) (*entity.SummaryResult, error)
}

// SummarizeHandler handles summarize API requests. Svc runs requests for the
// default model; Models holds one pipeline per selectable model identifier
// and may be nil when no alternatives are configured.
type SummarizeHandler struct {
	Svc    Runner
	Models map[string]Runner
}

// runnerFor picks the pipeline for the requested model. An empty model means
// the default.
func (h SummarizeHandler) runnerFor(model string) (Runner, error) {
	if model == "" {
		return h.Svc, nil
	}
	if runner, ok := h.Models[model]; ok {
		return runner, nil
	}
	return nil, invalidRequestf("unknown model %q", model)
}

// invalidRequestError marks transport-level problems that never reach the
// pipeline: malformed JSON, a missing input field, or a bad upload.
type invalidRequestError struct{ msg string }

func (e *invalidRequestError) Error() string { return e.msg }

func invalidRequestf(format string, args ...any) error {
	return &invalidRequestError{msg: fmt.Sprintf(format, args...)}
}

// ServeHTTP accepts a JSON body ({"text": ...} or {"url": ...}, optional
// "model") or a multipart file upload and responds with the summary, its
// HTML rendering, and the request metrics.
func (h SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := requestid.FromContext(r.Context())

	result, err := h.dispatch(r)
	if err != nil {
		writeSummarizeError(w, requestID, err)
		return
	}

	html, err := report.SummaryHTML(result.Summary)
	if err != nil {
		// 表示用の変換に失敗しても要約本文は返す
		slog.ErrorContext(r.Context(), "failed to render summary html",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		html = ""
	}

	respond.JSON(w, http.StatusOK, SummarizeResponse{
		Summary:     result.Summary,
		SummaryHTML: html,
		Metrics:     result.Metrics,
		Model:       result.Model,
		Usage:       result.Usage,
		Source:      string(result.Original.Source),
		Truncated:   result.Original.Truncated,
		DurationMS:  result.Duration.Milliseconds(),
		RequestID:   requestID,
	})
}

// dispatch picks the input variant from the request encoding and runs the
// pipeline.
func (h SummarizeHandler) dispatch(r *http.Request) (*entity.SummaryResult, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.fromUpload(r)
	}
	return h.fromJSON(r)
}

// fromJSON handles the {"text": ...} and {"url": ...} request bodies.
func (h SummarizeHandler) fromJSON(r *http.Request) (*entity.SummaryResult, error) {
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, invalidRequestf("invalid JSON body: %v", err)
	}

	runner, err := h.runnerFor(req.Model)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Text != "" && req.URL != "":
		return nil, invalidRequestf("text and url are mutually exclusive")
	case req.Text != "":
		return runner.Run(r.Context(), entity.NewInlineInput(req.Text))
	case req.URL != "":
		input := entity.NewURLInput(req.URL)
		// 取得前にURLの形だけ検査して、壊れたURLは 400 で返す
		if err := input.Validate(); err != nil {
			return nil, invalidRequestf("%v", err)
		}
		return runner.Run(r.Context(), input)
	default:
		return nil, invalidRequestf("either text or url is required")
	}
}

// fromUpload handles multipart file uploads. The file content is read here
// and handed to the pipeline as pre-resolved text so the analytics still see
// it as a file input.
func (h SummarizeHandler) fromUpload(r *http.Request) (*entity.SummaryResult, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, invalidRequestf("file field is required: %v", err)
	}
	defer file.Close()

	runner, err := h.runnerFor(r.FormValue("model"))
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, invalidRequestf("reading upload: %v", err)
	}
	if !utf8.Valid(data) {
		return nil, invalidRequestf("%s is not valid UTF-8 text", header.Filename)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%w: %s", summarize.ErrEmptyFile, header.Filename)
	}

	return runner.RunText(r.Context(), string(data), entity.SourceFile)
}

// writeSummarizeError maps a failure onto an HTTP status and writes the
// structured error body. Messages pass through the sanitizer so provider
// errors cannot leak credentials.
func writeSummarizeError(w http.ResponseWriter, requestID string, err error) {
	var invalid *invalidRequestError
	if errors.As(err, &invalid) {
		respond.JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     ErrorDetail{Kind: "invalid_request", Message: invalid.msg},
			RequestID: requestID,
		})
		return
	}

	kind := summarize.Kind(err)
	respond.JSON(w, statusForKind(kind), ErrorResponse{
		Error: ErrorDetail{
			Kind:        kind,
			Message:     respond.SanitizeError(err),
			Remediation: summarize.Remediation(err),
		},
		RequestID: requestID,
	})
}

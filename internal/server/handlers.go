package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"resumescore/internal/analysis"
	"resumescore/internal/common"
	"resumescore/internal/errors"
	"resumescore/internal/importer"
	"resumescore/internal/resume"
	"resumescore/internal/schemas"
	"resumescore/internal/suggest"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
)

// SuggestRequest is the body of the suggestion endpoints.
type SuggestRequest struct {
	Text           string `json:"text" validate:"max=20000"`
	JobDescription string `json:"jobDescription" validate:"max=20000"`
}

// ValidateResponse reports whether a document matches the resume schema.
type ValidateResponse struct {
	Valid  bool                 `json:"valid"`
	Errors []schemas.FieldError `json:"errors"`
}

// ParseFileResponse is the extracted text of an upload and the document parsed from it.
type ParseFileResponse struct {
	importer.Extraction
	Document resume.Document `json:"document"`
}

func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := s.decodeDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var result analysis.QualityResult
	s.runAnalysis(r.Context(), "quality", doc, func() float64 {
		result = analysis.ComputeQualityScore(doc)
		return float64(result.Total)
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) atsHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := s.decodeDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var result analysis.ATSResult
	s.runAnalysis(r.Context(), "ats", doc, func() float64 {
		result = analysis.ComputeATSScore(doc)
		return float64(result.Score)
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := s.decodeDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	start := time.Now()
	var report analysis.Report
	err = s.Obs.Trace(ctx, "analysis.report", func(ctx context.Context) error {
		var err error
		report, err = analysis.AnalyzeConcurrently(ctx, doc)
		return err
	}, attribute.Int("resume.length", doc.Length()))
	elapsed := time.Since(start)
	if err != nil {
		s.Obs.Metrics().RecordAnalysis(ctx, "report", 0, elapsed, err)
		s.writeError(w, r, errors.NewInternalError("ANALYSIS_FAILED", "Analysis was interrupted", err))
		return
	}

	s.Obs.Metrics().RecordAnalysis(ctx, "quality", float64(report.Quality.Total), elapsed, nil)
	s.Obs.Metrics().RecordAnalysis(ctx, "ats", float64(report.ATS.Score), elapsed, nil)
	s.analyses.Add(2)
	writeJSON(w, http.StatusOK, report)
}

// runAnalysis traces and records one analyzer run. analyze returns the score.
func (s *Server) runAnalysis(ctx context.Context, analyzer string, doc resume.Document, analyze func() float64) {
	start := time.Now()
	var score float64
	_ = s.Obs.Trace(ctx, "analysis."+analyzer, func(context.Context) error {
		score = analyze()
		return nil
	}, attribute.Int("resume.length", doc.Length()))

	s.Obs.Metrics().RecordAnalysis(ctx, analyzer, score, time.Since(start), nil)
	s.analyses.Add(1)
	s.Logger.Debug("Analysis completed", "analyzer", analyzer, "score", score)
}

func (s *Server) validateHandler(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	err = schemas.Validate(data, requestFormat(r))
	if verr, ok := schemas.AsValidationError(err); ok {
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false, Errors: verr.Errors})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Errors: []schemas.FieldError{}})
}

func (s *Server) parseFileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			s.writeError(w, r, errors.NewValidationError(errors.ErrCodeFileTooLarge,
				fmt.Sprintf("File exceeds the %d byte limit", s.MaxUploadSize), err))
			return
		}
		writeErrorResponse(w, "No file uploaded", "multipart field 'file' is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, errors.NewIOError(errors.ErrCodeFileNotReadable, "Failed to read uploaded file", err))
		return
	}

	var extraction importer.Extraction
	err = s.Obs.Trace(ctx, "import.extract", func(ctx context.Context) error {
		var err error
		extraction, err = s.Importer.Extract(ctx, header.Filename, data)
		return err
	}, attribute.String("file.name", header.Filename), attribute.Int("file.size", len(data)))

	fileType, _ := importer.DetectType(header.Filename)
	s.Obs.Metrics().RecordImport(ctx, fileType, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.imports.Add(1)

	writeJSON(w, http.StatusOK, ParseFileResponse{
		Extraction: extraction,
		Document:   importer.ParseText(extraction.Text),
	})
}

func (s *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := suggest.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req SuggestRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, validationFailure(err))
		return
	}

	result, err := s.Suggester.Suggest(ctx, suggest.Request{
		Kind:           kind,
		Text:           req.Text,
		JobDescription: req.JobDescription,
	})
	s.Obs.Metrics().RecordSuggestion(ctx, string(kind), result.Source, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// healthHandler reports liveness and the state of the suggestion provider.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	suggestStats := s.Suggester.Stats()
	status := "healthy"
	if healthy, ok := suggestStats["healthy"].(bool); ok && !healthy {
		// static suggestions still answer while the provider recovers
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"service": "resumescore",
		"version": s.Version,
		"suggest": suggestStats,
	})
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service":        "resumescore",
		"version":        s.Version,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"server": map[string]any{
			"max_body_size_bytes":   s.MaxBodySize,
			"max_upload_size_bytes": s.MaxUploadSize,
			"auth_enabled":          len(s.APIKeys) > 0,
		},
		"counters": map[string]any{
			"analyses": s.analyses.Load(),
			"imports":  s.imports.Load(),
		},
		"suggest": s.Suggester.Stats(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	writeJSON(w, http.StatusOK, response)
}

// decodeDocument reads a resume document from the request body. The
// strict query parameter enables schema validation.
func (s *Server) decodeDocument(r *http.Request) (resume.Document, error) {
	data, err := readBody(r)
	if err != nil {
		return resume.Document{}, err
	}

	strict := false
	if raw := r.URL.Query().Get("strict"); raw != "" {
		strict, err = strconv.ParseBool(raw)
		if err != nil {
			return resume.Document{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				"strict must be a boolean", err)
		}
	}

	return common.DecodeDocument(data, requestFormat(r), strict)
}

// requestFormat maps the Content-Type to a document format. JSON is the default.
func requestFormat(r *http.Request) string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return resume.FormatJSON
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return resume.FormatYAML
	default:
		return resume.FormatJSON
	}
}

// readBody reads the whole body, reporting size-limit violations distinctly.
func readBody(r *http.Request) ([]byte, error) {
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read request body", err)
	}
	return body, nil
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewParseError(errors.ErrCodeInvalidRequest, "failed to parse JSON", err)
	}
	return nil
}

// validationFailure turns validator errors into a request error listing the fields.
func validationFailure(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "Invalid request", err)
	}

	details := make([]schemas.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		message := fmt.Sprintf("failed '%s' validation", fe.Tag())
		if fe.Tag() == "max" {
			message = fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		details = append(details, schemas.FieldError{Field: fe.Field(), Message: message})
	}
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, "Invalid request", err).
		WithContext("fields", details)
}

// writeError maps err to a status code and an ErrorResponse.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	appErr, ok := errors.AsAppError(err)
	switch {
	case stderrors.As(err, &maxBytesErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "Request too large",
			Message: fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit),
			Code:    errors.ErrCodeFileTooLarge,
		})
	case ok:
		resp := ErrorResponse{Error: appErr.Message, Code: appErr.Code}
		if verr, isSchema := schemas.AsValidationError(appErr.Cause); isSchema {
			resp.Details = verr.Errors
		} else if fields, hasFields := appErr.Context["fields"]; hasFields {
			resp.Details = fields
		} else if appErr.Cause != nil {
			resp.Message = appErr.Cause.Error()
		}
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			s.Logger.LogError(err, "Request failed", "endpoint", r.URL.Path)
		}
		writeJSON(w, status, resp)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		writeErrorResponse(w, "Request cancelled", err.Error(), http.StatusServiceUnavailable)
	default:
		s.Logger.LogError(err, "Request failed", "endpoint", r.URL.Path)
		writeErrorResponse(w, "Internal server error", "", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent
		_, _ = fmt.Fprintf(w, `{"error":"Failed to encode response"}`)
	}
}

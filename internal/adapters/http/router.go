package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/fake-news-detector/internal/config"
	"github.com/kirillkom/fake-news-detector/internal/core/domain"
	"github.com/kirillkom/fake-news-detector/internal/core/ports"
	"github.com/kirillkom/fake-news-detector/internal/observability/metrics"
)

const (
	modeManual = "manual"
	modeUpload = "upload"

	defaultMaxUploadBytes = 20 << 20
	multipartMemory       = 8 << 20
	multipartOverhead     = 1 << 20
)

type Router struct {
	cfg      config.Config
	detector ports.NewsDetector
	metrics  *metrics.HTTPServerMetrics
	logger   *slog.Logger
	page     *pageRenderer
}

func NewRouter(
	cfg config.Config,
	detector ports.NewsDetector,
	httpMetrics *metrics.HTTPServerMetrics,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		cfg:      cfg,
		detector: detector,
		metrics:  httpMetrics,
		logger:   logger,
		page:     newPageRenderer(logger),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.index)
	mux.HandleFunc("/detect", rt.detect)
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil && rt.cfg.MetricsEnabled {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = securityHeadersMiddleware(handler)
	handler = recoverMiddleware(rt.logger, handler)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	mode := modeManual
	if r.URL.Query().Get("mode") == modeUpload {
		mode = modeUpload
	}
	rt.page.render(w, http.StatusOK, pageData{Mode: mode})
}

func (rt *Router) detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	data := pageData{Mode: modeManual}
	if err := rt.parseForm(w, r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			data.Mode = modeUpload
			data.Error = fileErrorMessage(domain.ErrUploadTooLarge)
			rt.page.render(w, http.StatusRequestEntityTooLarge, data)
			return
		}
		data.Error = "Could not read the submitted form."
		rt.page.render(w, http.StatusBadRequest, data)
		return
	}

	input := ports.AnalyzeInput{Source: domain.SourceManual}
	if r.FormValue("mode") == modeUpload {
		data.Mode = modeUpload
		input.Source = domain.SourceUpload

		doc, status, err := rt.readUpload(r)
		if err != nil {
			data.Error = fileErrorMessage(err)
			rt.page.render(w, status, data)
			return
		}
		if doc != nil {
			data.Filename = doc.Filename
			data.Notice = "File read successfully!"
			input.Text = doc.Text
			input.Filename = doc.Filename
			input.Format = doc.Format
		}
	} else {
		data.Title = r.FormValue("title")
		data.Body = r.FormValue("body")
		input.Text = rt.detector.ComposeManualText(data.Title, data.Body)
	}

	analysis, err := rt.detector.Analyze(r.Context(), input)
	if err != nil {
		if domain.IsKind(err, domain.ErrEmptyText) {
			data.Warning = emptyContentWarning
			rt.page.render(w, http.StatusBadRequest, data)
			return
		}
		rt.logger.Error("analysis_failed",
			"request_id", requestIDFromContext(r.Context()),
			"source", string(input.Source),
			"error", err,
		)
		data.Error = "Could not analyze the submitted text."
		rt.page.render(w, mapErrorToHTTPStatus(err), data)
		return
	}

	data.Result = newResultView(analysis)
	rt.page.render(w, http.StatusOK, data)
}

// readUpload returns a nil document without error when no file was attached.
func (rt *Router) readUpload(r *http.Request) (*domain.Document, int, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, http.StatusOK, nil
		}
		return nil, http.StatusBadRequest, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}
	defer file.Close()

	doc, err := rt.detector.ExtractUpload(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		return nil, mapErrorToHTTPStatus(err), err
	}
	return doc, http.StatusOK, nil
}

func (rt *Router) parseForm(w http.ResponseWriter, r *http.Request) error {
	limit := rt.cfg.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func fileErrorMessage(err error) string {
	msg := err.Error()
	switch {
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		msg = "unsupported file type, upload one of " + strings.Join(acceptedExtensions(), ", ")
	case domain.IsKind(err, domain.ErrUploadTooLarge):
		msg = "file is too large"
	}
	return "Error reading file: " + msg
}

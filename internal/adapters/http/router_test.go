package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/fake-news-detector/internal/config"
	"github.com/kirillkom/fake-news-detector/internal/core/domain"
	"github.com/kirillkom/fake-news-detector/internal/core/ports"
	"github.com/kirillkom/fake-news-detector/internal/observability/metrics"
)

type detectorFake struct {
	extractErr   error
	extractText  string
	analyzeErr   error
	analyzeCalls int
	lastInput    ports.AnalyzeInput
}

func (f *detectorFake) ComposeManualText(title, body string) string {
	if title == "" || body == "" {
		return ""
	}
	return title + " " + body
}

func (f *detectorFake) ExtractUpload(_ context.Context, filename string, size int64, body io.Reader) (*domain.Document, error) {
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	format, _ := domain.FormatFromFilename(filename)
	return &domain.Document{Filename: filename, Format: format, Size: size, Text: f.extractText}, nil
}

func (f *detectorFake) Analyze(_ context.Context, input ports.AnalyzeInput) (*domain.Analysis, error) {
	f.analyzeCalls++
	f.lastInput = input
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.ErrEmptyText
	}
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return &domain.Analysis{
		Source:         input.Source,
		AnalyzedText:   input.Text,
		NormalizedText: strings.ToLower(input.Text),
		Label:          1,
		Verdict:        domain.VerdictReal,
		Score:          0.42,
	}, nil
}

func newTestHandler(cfg config.Config, detector ports.NewsDetector) http.Handler {
	return NewRouter(cfg, detector, nil, nil).Handler()
}

type formFile struct {
	name    string
	content []byte
}

func newMultipartRequest(t *testing.T, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile("file", file.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/detect", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newTestHandler(config.Config{}, &detectorFake{})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestIndexRendersForm(t *testing.T) {
	handler := newTestHandler(config.Config{}, &detectorFake{})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	body := res.Body.String()
	for _, want := range []string{`action="/detect"`, `name="title"`, `name="body"`, `accept=".pdf,.docx,.pptx,.txt"`, "Detect"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "This news appears to be") {
		t.Fatalf("expected no verdict on the empty page")
	}
}

func TestIndexUnknownPathAndMethod(t *testing.T) {
	handler := newTestHandler(config.Config{}, &detectorFake{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/detect", nil))
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestDetectManualRendersVerdict(t *testing.T) {
	detector := &detectorFake{}
	handler := newTestHandler(config.Config{}, detector)

	req := newMultipartRequest(t, map[string]string{
		"mode":  "manual",
		"title": "Breaking",
		"body":  "Parliament passes budget",
	}, nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if detector.lastInput.Text != "Breaking Parliament passes budget" || detector.lastInput.Source != domain.SourceManual {
		t.Fatalf("unexpected analyze input: %+v", detector.lastInput)
	}
	body := res.Body.String()
	if !strings.Contains(body, bannerReal) {
		t.Fatalf("expected real banner in page")
	}
	if !strings.Contains(body, "Breaking Parliament passes budget") {
		t.Fatalf("expected analyzed text in page")
	}
}

func TestDetectManualAcceptsURLEncodedForm(t *testing.T) {
	detector := &detectorFake{}
	handler := newTestHandler(config.Config{}, detector)

	req := httptest.NewRequest(http.MethodPost, "/detect", strings.NewReader("mode=manual&title=Hello&body=World"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if detector.lastInput.Text != "Hello World" {
		t.Fatalf("unexpected analyze input: %q", detector.lastInput.Text)
	}
}

func TestDetectEmptyManualShowsWarning(t *testing.T) {
	detector := &detectorFake{}
	handler := newTestHandler(config.Config{}, detector)

	req := newMultipartRequest(t, map[string]string{"mode": "manual", "title": "Only a title"}, nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, emptyContentWarning) {
		t.Fatalf("expected empty content warning")
	}
	if strings.Contains(body, "This news appears to be") {
		t.Fatalf("expected no verdict banner")
	}
	if !strings.Contains(body, `value="Only a title"`) {
		t.Fatalf("expected title to be kept in the form")
	}
}

func TestDetectUploadWithoutFileShowsWarning(t *testing.T) {
	handler := newTestHandler(config.Config{}, &detectorFake{})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, newMultipartRequest(t, map[string]string{"mode": "upload"}, nil))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), emptyContentWarning) {
		t.Fatalf("expected empty content warning")
	}
}

func TestDetectUploadMapsErrorsToStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unsupported", domain.WrapError(domain.ErrUnsupportedFormat, "extract upload", errors.New("rtf")), http.StatusUnsupportedMediaType},
		{"too large", domain.WrapError(domain.ErrUploadTooLarge, "extract upload", errors.New("big")), http.StatusRequestEntityTooLarge},
		{"corrupted", domain.WrapError(domain.ErrExtractionFailed, "extract pdf", errors.New("bad xref")), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		detector := &detectorFake{extractErr: tc.err}
		handler := newTestHandler(config.Config{}, detector)

		req := newMultipartRequest(t, map[string]string{"mode": "upload"}, &formFile{name: "doc.pdf", content: []byte("%PDF")})
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		if res.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, res.Code)
		}
		if !strings.Contains(res.Body.String(), "Error reading file: ") {
			t.Fatalf("%s: expected file error message", tc.name)
		}
		if detector.analyzeCalls != 0 {
			t.Fatalf("%s: expected no analysis after extraction failure", tc.name)
		}
	}
}

func TestDetectAnalyzeFailureReturns500(t *testing.T) {
	detector := &detectorFake{analyzeErr: errors.New("dimension mismatch")}
	handler := newTestHandler(config.Config{}, detector)

	req := newMultipartRequest(t, map[string]string{"mode": "manual", "title": "a", "body": "b"}, nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if strings.Contains(res.Body.String(), "dimension mismatch") {
		t.Fatalf("expected internal error details to stay out of the page")
	}
}

func TestDetectOversizedBodyReturns413(t *testing.T) {
	handler := newTestHandler(config.Config{MaxUploadBytes: 16}, &detectorFake{})

	big := bytes.Repeat([]byte("x"), multipartOverhead+64)
	req := newMultipartRequest(t, map[string]string{"mode": "upload"}, &formFile{name: "big.txt", content: big})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", res.Code)
	}
}

func TestMetricsEndpointExposesDetectorMetrics(t *testing.T) {
	m := metrics.NewHTTPServerMetrics("web")
	m.RecordRejected("empty_text")
	handler := NewRouter(config.Config{MetricsEnabled: true}, &detectorFake{}, m, nil).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "detector_rejected_total") {
		t.Fatalf("expected detector metrics in exposition")
	}
}

func TestRecoverMiddlewareConvertsPanicTo500(t *testing.T) {
	handler := recoverMiddleware(discardLogger(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("parser exploded")
	}))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/detect", nil))
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
}

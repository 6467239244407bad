package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/saiyo/internal/config"
	"github.com/hyperjump/saiyo/internal/extract"
	"github.com/hyperjump/saiyo/internal/fixtures"
	"github.com/hyperjump/saiyo/internal/models"
	"github.com/hyperjump/saiyo/internal/ranking"
	"github.com/hyperjump/saiyo/internal/screening"
)

const jobDescription = "Python developer with 5 years experience in backend systems"

type upload struct {
	name    string
	content []byte
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	ranker, err := ranking.NewRanker(&cfg.Ranking)
	if err != nil {
		t.Fatalf("NewRanker: %v", err)
	}
	screener := screening.NewScreener(extract.NewExtractor(), ranker,
		screening.WithPreviewChars(cfg.Ranking.PreviewChars))
	srv, err := NewServer(screener, cfg, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func multipartRequest(t *testing.T, target, jd string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if jd != "" {
		if err := mw.WriteField(FieldJobDescription, jd); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(FieldResumes, f.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, target, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func serve(srv *Server, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

func sampleUploads() []upload {
	return []upload{
		{"designer.pdf", fixtures.MinimalPDF("Graphic designer skilled in Photoshop")},
		{"backend.pdf", fixtures.MinimalPDF("Senior Python backend engineer, 6 years experience")},
	}
}

func TestHandleHealth(t *testing.T) {
	w := serve(newTestServer(t, nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "ok" {
		t.Errorf("status field: got %q", out["status"])
	}
}

func TestHandleIndex(t *testing.T) {
	w := serve(newTestServer(t, nil), httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body := w.Body.String()
	for _, sub := range []string{"Résumé Screening", `name="job_description"`, `name="resumes"`, "multiple"} {
		if !strings.Contains(body, sub) {
			t.Errorf("page missing %q", sub)
		}
	}
}

func TestHandleIndex_acceptsConfiguredExtensions(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.Extract.Extensions = []string{".pdf", ".txt"} })
	w := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	body := w.Body.String()
	if !strings.Contains(body, `accept=".pdf,.txt"`) {
		t.Errorf("accept attribute not rendered from config:\n%s", body)
	}
	if !strings.Contains(body, "Upload Resumes (PDF, TXT)") {
		t.Errorf("format label not rendered from config:\n%s", body)
	}
	if strings.Contains(body, ".docx") {
		t.Error("unconfigured extension listed")
	}
}

func TestFormatLabel(t *testing.T) {
	if got := formatLabel([]string{".pdf", ".docx", ".md"}); got != "PDF, DOCX, MD" {
		t.Errorf("formatLabel = %q", got)
	}
}

func TestHandleRank(t *testing.T) {
	w := serve(newTestServer(t, nil), multipartRequest(t, "/api/v1/rank", jobDescription, sampleUploads()...))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
	}
	var resp models.RankResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || len(resp.Results) != 2 {
		t.Fatalf("results: got %+v", resp)
	}
	if resp.Results[0].Name != "backend.pdf" || resp.Results[0].Rank != 1 {
		t.Errorf("first result: got %+v", resp.Results[0])
	}
	if resp.Results[1].Name != "designer.pdf" || resp.Results[1].Rank != 2 {
		t.Errorf("second result: got %+v", resp.Results[1])
	}
	if !(resp.Results[0].Score > resp.Results[1].Score && resp.Results[1].Score > 0) {
		t.Errorf("scores out of order: %v, %v", resp.Results[0].Score, resp.Results[1].Score)
	}
	if resp.RequestID == "" {
		t.Error("missing request id")
	}
}

func TestHandleRankPage(t *testing.T) {
	w := serve(newTestServer(t, nil), multipartRequest(t, "/", jobDescription, sampleUploads()...))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body := w.Body.String()
	first := strings.Index(body, "1. backend.pdf - Score: 0.")
	second := strings.Index(body, "2. designer.pdf - Score: 0.")
	if first < 0 || second < 0 || first > second {
		t.Errorf("ranked list missing or out of order:\n%s", body)
	}
	if !strings.Contains(body, "<progress") {
		t.Error("expected progress bars")
	}
	if !strings.Contains(body, "Python developer with 5 years") {
		t.Error("job description should be kept in the form")
	}
}

func TestHandleRank_errors(t *testing.T) {
	tests := []struct {
		name   string
		jd     string
		files  []upload
		mutate func(*config.Config)
		status int
	}{
		{"missing job description", "", sampleUploads(), nil, http.StatusBadRequest},
		{"blank job description", "   ", sampleUploads(), nil, http.StatusBadRequest},
		{"no files", jobDescription, nil, nil, http.StatusBadRequest},
		{"unsupported type", jobDescription, []upload{{"photo.png", []byte("png")}}, nil, http.StatusUnsupportedMediaType},
		{"malformed pdf", jobDescription, []upload{{"broken.pdf", []byte("not a pdf at all")}}, nil, http.StatusUnprocessableEntity},
		{"too large", jobDescription,
			[]upload{{"huge.txt", bytes.Repeat([]byte("a"), 2<<20)}},
			func(c *config.Config) { c.Server.MaxUploadMB = 1 },
			http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.mutate)
			w := serve(srv, multipartRequest(t, "/api/v1/rank", tt.jd, tt.files...))
			if w.Code != tt.status {
				t.Fatalf("status: got %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			var out map[string]string
			if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
				t.Fatal(err)
			}
			if out["error"] == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestHandleRank_notMultipart(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/rank", strings.NewReader(`{"job_description":"x"}`))
	r.Header.Set("Content-Type", "application/json")
	w := serve(newTestServer(t, nil), r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleRankPage_errorRendered(t *testing.T) {
	w := serve(newTestServer(t, nil), multipartRequest(t, "/", jobDescription))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `class="error"`) {
		t.Errorf("error not rendered:\n%s", w.Body.String())
	}
}

type failingScreener struct{}

func (failingScreener) Screen(context.Context, string, []*models.Document) (*models.RankResponse, error) {
	return nil, errors.New("disk on fire")
}

func TestHandleRank_internalError(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	srv, err := NewServer(failingScreener{}, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	w := serve(srv, multipartRequest(t, "/api/v1/rank", jobDescription, sampleUploads()...))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "disk on fire") {
		t.Error("internal error details leaked")
	}
}

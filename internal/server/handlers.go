package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/saiyo/internal/extract"
	"github.com/hyperjump/saiyo/internal/models"
	"github.com/hyperjump/saiyo/internal/screening"
	"go.uber.org/zap"
)

// Form field names of the upload form and API.
const (
	FieldJobDescription = "job_description"
	FieldResumes        = "resumes"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

type pageData struct {
	Title          string
	Accept         string
	Formats        string
	JobDescription string
	Error          string
	Response       *models.RankResponse
}

// requestError carries the HTTP status for a rejected ranking request.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.newPage())
}

func (s *Server) handleRankPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPage()
	response, jd, err := s.rank(w, r)
	data.JobDescription = jd
	if err != nil {
		status, msg := s.classify(r, err)
		data.Error = msg
		s.render(w, status, data)
		return
	}
	data.Response = response
	s.render(w, http.StatusOK, data)
}

func (s *Server) newPage() *pageData {
	return &pageData{Title: s.config.Title, Accept: s.accept, Formats: s.formats}
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	response, _, err := s.rank(w, r)
	if err != nil {
		status, msg := s.classify(r, err)
		s.respondError(w, status, msg)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// rank parses the upload form and screens the résumés it carries. The job
// description is returned even on failure so the page can keep it.
func (s *Server) rank(w http.ResponseWriter, r *http.Request) (*models.RankResponse, string, error) {
	tooLarge := &requestError{http.StatusRequestEntityTooLarge,
		fmt.Sprintf("upload exceeds %d MB", s.config.MaxUploadMB)}
	if r.ContentLength > s.config.MaxUploadBytes() {
		return nil, "", tooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, "", tooLarge
		}
		return nil, "", &requestError{http.StatusBadRequest, "invalid multipart form"}
	}
	defer r.MultipartForm.RemoveAll()

	jd := r.FormValue(FieldJobDescription)
	if strings.TrimSpace(jd) == "" {
		return nil, jd, &requestError{http.StatusBadRequest, "job description is required"}
	}
	files := r.MultipartForm.File[FieldResumes]
	if len(files) == 0 {
		return nil, jd, &requestError{http.StatusBadRequest, "at least one résumé is required"}
	}
	docs := make([]*models.Document, 0, len(files))
	for _, fh := range files {
		doc, err := s.readUpload(fh)
		if err != nil {
			return nil, jd, err
		}
		docs = append(docs, doc)
	}
	s.logger.Debug("rank request",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Int("documents", len(docs)),
	)
	response, err := s.screener.Screen(r.Context(), jd, docs)
	return response, jd, err
}

func (s *Server) readUpload(fh *multipart.FileHeader) (*models.Document, error) {
	doc := &models.Document{Name: fh.Filename}
	if !s.extract.Accepts(doc.Ext()) {
		return nil, &requestError{http.StatusUnsupportedMediaType,
			fmt.Sprintf("%s: unsupported file type %s", fh.Filename, doc.Ext())}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	doc.Content = content
	return doc, nil
}

// classify maps a ranking failure to a status code and a user-facing message.
func (s *Server) classify(r *http.Request, err error) (int, string) {
	var reqErr *requestError
	var docErr *screening.DocumentError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status, reqErr.msg
	case errors.Is(err, screening.ErrEmptyJobDescription), errors.Is(err, screening.ErrNoDocuments):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &docErr):
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			return http.StatusUnsupportedMediaType, err.Error()
		}
		s.logger.Warn("document rejected", zap.String("name", docErr.Name), zap.Error(docErr.Err))
		return http.StatusUnprocessableEntity, fmt.Sprintf("could not read %s", docErr.Name)
	default:
		s.logger.Error("ranking failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		return http.StatusInternalServerError, "ranking failed"
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page failed", zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

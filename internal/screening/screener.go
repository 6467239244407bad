// Package screening runs a ranking request end to end: extract every uploaded
// résumé, score the batch against the job description, and order the results.
package screening

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/saiyo/internal/models"
	"github.com/hyperjump/saiyo/internal/ranking"
	"github.com/hyperjump/saiyo/pkg/utils"
	"go.uber.org/zap"
)

var (
	// ErrEmptyJobDescription is returned when the job description is blank.
	ErrEmptyJobDescription = errors.New("job description is empty")
	// ErrNoDocuments is returned when a request carries no résumés.
	ErrNoDocuments = errors.New("no documents to rank")
)

// DocumentError reports the document whose extraction failed.
type DocumentError struct {
	Name string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("extract %q: %v", e.Name, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractBytes(content []byte, ext string) (string, error)
}

// Ranker scores résumé texts against a job description, index-aligned.
type Ranker interface {
	Score(jobDescription string, resumes []string) []ranking.Match
}

// Screener orchestrates extraction and ranking for one request at a time. It
// keeps no state between requests.
type Screener struct {
	extractor    TextExtractor
	ranker       Ranker
	previewChars int
	logger       *zap.Logger
}

// Option configures a Screener.
type Option func(*Screener)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Screener) {
		s.logger = logger
	}
}

// WithPreviewChars sets how many characters of extracted text are kept as a
// preview. Zero or a negative value disables previews.
func WithPreviewChars(n int) Option {
	return func(s *Screener) {
		s.previewChars = n
	}
}

// NewScreener creates a Screener.
func NewScreener(extractor TextExtractor, ranker Ranker, opts ...Option) *Screener {
	s := &Screener{
		extractor: extractor,
		ranker:    ranker,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	return s
}

// Screen extracts text from docs in upload order, ranks them against
// jobDescription and returns the results sorted by descending score. Equal
// scores keep upload order. The first extraction failure aborts the request.
func (s *Screener) Screen(ctx context.Context, jobDescription string, docs []*models.Document) (*models.RankResponse, error) {
	startTime := time.Now()
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	requestID := uuid.New().String()
	log := s.logger.With(zap.String("request_id", requestID))

	texts := make([]string, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := s.extractor.ExtractBytes(doc.Content, doc.Ext())
		if err != nil {
			return nil, &DocumentError{Name: doc.Name, Err: err}
		}
		texts[i] = text
		log.Debug("extracted document",
			zap.String("name", doc.Name),
			zap.Int("bytes", len(doc.Content)),
			zap.Int("chars", len([]rune(text))),
		)
	}

	matches := s.ranker.Score(jobDescription, texts)
	if len(matches) != len(docs) {
		return nil, fmt.Errorf("ranker returned %d scores for %d documents", len(matches), len(docs))
	}

	results := make([]*models.ScoredDocument, len(docs))
	for i, doc := range docs {
		results[i] = &models.ScoredDocument{
			Name:         doc.Name,
			Score:        matches[i].Score,
			Progress:     utils.Clamp01(matches[i].Score),
			Preview:      s.preview(texts[i]),
			MatchedTerms: matches[i].MatchedTerms,
		}
	}
	SortByScore(results)

	resp := &models.RankResponse{
		RequestID: requestID,
		Results:   results,
		Total:     len(results),
		QueryTime: time.Since(startTime).Milliseconds(),
	}
	log.Info("ranked resumes",
		zap.Int("documents", resp.Total),
		zap.String("top", results[0].Name),
		zap.Float64("top_score", results[0].Score),
		zap.Int64("query_time_ms", resp.QueryTime),
	)
	return resp, nil
}

// SortByScore orders results by descending score, keeping the existing order
// among equal scores, and assigns 1-indexed ranks.
func SortByScore(results []*models.ScoredDocument) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for i, r := range results {
		r.Rank = i + 1
	}
}

func (s *Screener) preview(text string) string {
	if s.previewChars <= 0 {
		return ""
	}
	return utils.Truncate(utils.CollapseSpace(text), s.previewChars)
}

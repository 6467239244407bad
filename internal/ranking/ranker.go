// Package ranking scores résumé texts against a job description by TF-IDF cosine similarity.
package ranking

import (
	"github.com/hyperjump/saiyo/internal/config"
	"github.com/hyperjump/saiyo/internal/vector"
	"github.com/hyperjump/saiyo/pkg/utils"
	"go.uber.org/zap"
)

// matchedTermLimit caps the shared terms reported per résumé.
const matchedTermLimit = 5

// Match is the score of one résumé together with the terms it shares with the
// job description, strongest first.
type Match struct {
	Score        float64
	MatchedTerms []string
}

// Ranker scores résumés against a job description. It holds no per-request state
// and may be shared.
type Ranker struct {
	vectorizer *Vectorizer
	logger     *zap.Logger
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithLogger sets the logger for per-request debug output.
func WithLogger(logger *zap.Logger) RankerOption {
	return func(r *Ranker) {
		r.logger = logger
	}
}

// NewRanker creates a Ranker from cfg. A nil cfg uses the plain analyzer with a
// two-rune minimum token length.
func NewRanker(cfg *config.RankingConfig, opts ...RankerOption) (*Ranker, error) {
	if cfg == nil {
		cfg = &config.RankingConfig{Analyzer: AnalyzerPlain, MinTokenLength: 2}
	}
	tok, err := NewTokenizer(cfg.Analyzer, cfg.MinTokenLength)
	if err != nil {
		return nil, err
	}
	r := &Ranker{
		vectorizer: NewVectorizer(tok, cfg.SublinearTF),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = utils.OrNop(r.logger)
	return r, nil
}

// Rank returns one score in [0, 1] per résumé, index-aligned with resumes.
func (r *Ranker) Rank(jobDescription string, resumes []string) []float64 {
	matches := r.Score(jobDescription, resumes)
	scores := make([]float64, len(matches))
	for i, m := range matches {
		scores[i] = m.Score
	}
	return scores
}

// Score fits one vector space over the job description (document 0) and the
// résumés, then compares the job vector with each résumé vector. An empty résumé
// list returns an empty slice without fitting anything.
func (r *Ranker) Score(jobDescription string, resumes []string) []Match {
	matches := make([]Match, len(resumes))
	if len(resumes) == 0 {
		return matches
	}
	corpus := make([]string, 0, len(resumes)+1)
	corpus = append(corpus, jobDescription)
	corpus = append(corpus, resumes...)
	model := r.vectorizer.Fit(corpus)

	job := model.Vector(0)
	for i := range resumes {
		matches[i] = Match{
			Score:        utils.Clamp01(vector.Cosine(job, model.Vector(i+1))),
			MatchedTerms: model.SharedTerms(0, i+1, matchedTermLimit),
		}
	}
	r.logger.Debug("ranked corpus",
		zap.Int("documents", model.Len()),
		zap.Int("vocabulary", len(model.Vocabulary())),
	)
	return matches
}

package models

// ScoredDocument is a single ranked résumé.
type ScoredDocument struct {
	// Rank is the 1-indexed position after sorting by score.
	Rank int    `json:"rank"`
	Name string `json:"name"`
	// Score is the cosine similarity against the job description.
	Score float64 `json:"score"`
	// Progress is Score clamped to [0, 1] for a progress indicator.
	Progress     float64  `json:"progress"`
	Preview      string   `json:"preview,omitempty"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

// RankResponse is the result of one ranking request. It is never persisted.
type RankResponse struct {
	RequestID string            `json:"request_id"`
	Results   []*ScoredDocument `json:"results"`
	Total     int               `json:"total"`
	QueryTime int64             `json:"query_time_ms"`
}

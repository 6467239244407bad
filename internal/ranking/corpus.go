package ranking

import "math"

// CorpusStats holds corpus-level statistics for IDF calculation.
type CorpusStats struct {
	// TotalDocs is the number of documents added.
	TotalDocs int
	// DocFrequencies maps terms to the number of documents containing them.
	DocFrequencies map[string]int
}

// NewCorpusStats creates an empty CorpusStats.
func NewCorpusStats() *CorpusStats {
	return &CorpusStats{DocFrequencies: make(map[string]int)}
}

// Add counts one document whose distinct terms are the keys of tf.
func (c *CorpusStats) Add(tf map[string]int) {
	c.TotalDocs++
	for term := range tf {
		c.DocFrequencies[term]++
	}
}

// IDF returns the smoothed inverse document frequency ln((1+n)/(1+df)) + 1.
// Terms never seen are treated as having df 0.
func (c *CorpusStats) IDF(term string) float64 {
	n := float64(c.TotalDocs)
	return math.Log((1+n)/(1+float64(c.DocFrequencies[term]))) + 1
}

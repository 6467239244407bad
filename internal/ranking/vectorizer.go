package ranking

import (
	"math"
	"sort"

	"github.com/hyperjump/saiyo/pkg/utils"
)

// Vectorizer fits a TF-IDF vector space over a corpus.
//
// Term weights follow the smoothed formulation: tf is the raw term count (or
// 1+ln(tf) when sublinear), idf = ln((1+n)/(1+df)) + 1, and every document vector
// is L2-normalised.
type Vectorizer struct {
	tokenizer   *Tokenizer
	sublinearTF bool
}

// NewVectorizer returns a Vectorizer using tokenizer for term extraction.
func NewVectorizer(tokenizer *Tokenizer, sublinearTF bool) *Vectorizer {
	return &Vectorizer{tokenizer: tokenizer, sublinearTF: sublinearTF}
}

// Model is a fitted vector space. Document i of the fitted corpus is Vector(i).
type Model struct {
	vocabulary []string
	vectors    [][]float64
}

// Fit computes vocabulary, document frequencies and normalised vectors for docs
// jointly, so every vector lives in the same space.
func (v *Vectorizer) Fit(docs []string) *Model {
	stats := NewCorpusStats()
	counts := make([]map[string]int, len(docs))
	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range v.tokenizer.Tokens(doc) {
			tf[term]++
		}
		stats.Add(tf)
		counts[i] = tf
	}

	vocabulary := make([]string, 0, len(stats.DocFrequencies))
	for term := range stats.DocFrequencies {
		vocabulary = append(vocabulary, term)
	}
	sort.Strings(vocabulary)
	index := make(map[string]int, len(vocabulary))
	idf := make([]float64, len(vocabulary))
	for j, term := range vocabulary {
		index[term] = j
		idf[j] = stats.IDF(term)
	}

	vectors := make([][]float64, len(docs))
	for i, tf := range counts {
		vec := make([]float64, len(vocabulary))
		for term, c := range tf {
			j := index[term]
			w := float64(c)
			if v.sublinearTF {
				w = 1 + math.Log(w)
			}
			vec[j] = w * idf[j]
		}
		utils.NormalizeL2(vec)
		vectors[i] = vec
	}
	return &Model{vocabulary: vocabulary, vectors: vectors}
}

// Len returns the number of fitted documents.
func (m *Model) Len() int { return len(m.vectors) }

// Vocabulary returns the sorted terms of the vector space.
func (m *Model) Vocabulary() []string { return m.vocabulary }

// Vector returns the normalised TF-IDF vector of fitted document i.
func (m *Model) Vector(i int) []float64 { return m.vectors[i] }

// SharedTerms returns up to k terms present in both documents a and b, ordered by
// their contribution to the inner product (ties by term).
func (m *Model) SharedTerms(a, b, k int) []string {
	type contrib struct {
		term string
		w    float64
	}
	va, vb := m.vectors[a], m.vectors[b]
	var shared []contrib
	for j := range va {
		if w := va[j] * vb[j]; w > 0 {
			shared = append(shared, contrib{term: m.vocabulary[j], w: w})
		}
	}
	sort.Slice(shared, func(x, y int) bool {
		if shared[x].w != shared[y].w {
			return shared[x].w > shared[y].w
		}
		return shared[x].term < shared[y].term
	})
	if k >= 0 && len(shared) > k {
		shared = shared[:k]
	}
	terms := make([]string, len(shared))
	for i, c := range shared {
		terms[i] = c.term
	}
	return terms
}

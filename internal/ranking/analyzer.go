package ranking

import (
	"fmt"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	bleveregexp "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/registry"
)

// Analyzer names. AnalyzerPlain splits text into runs of letters, digits and
// underscores and lower-cases them; AnalyzerStandard additionally removes English
// stop words.
const (
	AnalyzerPlain    = "plain"
	AnalyzerStandard = "standard"
)

// wordTokenizer splits on every character that is not a letter, digit or
// underscore, so "Node.js" yields "node" and "js" and "don't" yields "don" and "t".
const wordTokenizer = "word"

// wordPattern matches one term. Single-character terms are removed by the
// tokenizer's minimum length.
const wordPattern = `[\p{L}\p{N}_]+`

// Tokenizer turns text into the terms that make up a document's vocabulary.
type Tokenizer struct {
	analyze        func([]byte) analysis.TokenStream
	minTokenLength int
}

// NewTokenizer builds a tokenizer from a bleve analyzer. Terms shorter than
// minTokenLength runes are dropped.
func NewTokenizer(analyzerName string, minTokenLength int) (*Tokenizer, error) {
	analyze, err := buildAnalyzer(registry.NewCache(), analyzerName)
	if err != nil {
		return nil, fmt.Errorf("build analyzer %q: %w", analyzerName, err)
	}
	if minTokenLength < 1 {
		minTokenLength = 1
	}
	return &Tokenizer{analyze: analyze, minTokenLength: minTokenLength}, nil
}

func buildAnalyzer(cache *registry.Cache, name string) (func([]byte) analysis.TokenStream, error) {
	var filters []string
	switch name {
	case AnalyzerPlain, "":
		name = AnalyzerPlain
		filters = []string{lowercase.Name}
	case AnalyzerStandard:
		filters = []string{lowercase.Name, en.StopName}
	default:
		return nil, fmt.Errorf("unknown analyzer %q", name)
	}
	_, err := cache.DefineTokenizer(wordTokenizer, map[string]interface{}{
		"type":   bleveregexp.Name,
		"regexp": wordPattern,
	})
	if err != nil {
		return nil, err
	}
	a, err := cache.DefineAnalyzer("saiyo_"+name, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     wordTokenizer,
		"token_filters": filters,
	})
	if err != nil {
		return nil, err
	}
	return a.Analyze, nil
}

// Tokens returns the terms of text in order of appearance, duplicates included.
func (t *Tokenizer) Tokens(text string) []string {
	stream := t.analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		if utf8.RuneCount(tok.Term) < t.minTokenLength {
			continue
		}
		terms = append(terms, string(tok.Term))
	}
	return terms
}

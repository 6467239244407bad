// Package extract provides text extraction from résumé documents.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NoTextSentinel replaces extracted text that is empty after trimming, so the
// vectorizer never receives a zero-length document.
const NoTextSentinel = "No readable text found."

// ErrUnsupportedFormat is returned for extensions the extractor does not handle.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). The result is never empty:
// documents without recoverable text yield NoTextSentinel.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(ext) {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".txt", ".md":
		text, err = extractPlain(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", err
	}
	return orSentinel(text), nil
}

// ExtractPDF returns the text of every page of a PDF, or NoTextSentinel when no
// page yields text. Unparseable input returns an error.
func (e *Extractor) ExtractPDF(content []byte) (string, error) {
	return e.ExtractBytes(content, ".pdf")
}

func orSentinel(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoTextSentinel
	}
	return text
}

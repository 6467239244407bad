// Package models defines the data structures exchanged between extraction, ranking,
// and the presentation layers.
package models

import (
	"path/filepath"
	"strings"
)

// Document is an uploaded résumé: an opaque binary blob with a display name.
// Name is the identity and ordering key in ranking output.
type Document struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

// Ext returns the lower-cased file extension of Name including the dot.
// Documents without an extension are treated as PDF.
func (d *Document) Ext() string {
	ext := strings.ToLower(filepath.Ext(d.Name))
	if ext == "" {
		return ".pdf"
	}
	return ext
}

// Package extract pulls raw text out of source filing files.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor extracts raw text from filing files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether the extension (with leading dot) is an ingestible
// filing format.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".txt", ".pdf", ".docx":
		return true
	}
	return false
}

// Extract reads the file at path and returns its raw text. Plain text is
// returned as-is with malformed UTF-8 replaced; PDF and DOCX are decoded from
// their binary formats.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). Unknown extensions are
// treated as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	default:
		return extractPlain(content)
	}
}

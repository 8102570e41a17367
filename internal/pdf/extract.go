// Package pdf extracts plain text from uploaded CV documents.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// ExtractionError indicates a document could not be converted to text.
type ExtractionError struct {
	Path  string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Path, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Extractor converts stored documents to plain text.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText converts the document at path to plain text. PDF and common
// office formats go through docconv; plain text files are read directly.
func (e *Extractor) ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", &ExtractionError{Path: path, Cause: err}
		}
		return res.Body, nil
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", &ExtractionError{Path: path, Cause: err}
		}
		return string(content), nil
	default:
		return "", &ExtractionError{Path: path, Cause: fmt.Errorf("unsupported file type %q", filepath.Ext(path))}
	}
}

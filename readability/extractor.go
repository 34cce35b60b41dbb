// Package readability extracts main content from HTML using go-readability.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/fwojciec/techdocs"
)

// Ensure Extractor implements techdocs.Extractor at compile time.
var _ techdocs.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*techdocs.ExtractResult, error) {
	if rawHTML == "" {
		return nil, techdocs.Errorf(techdocs.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &techdocs.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}

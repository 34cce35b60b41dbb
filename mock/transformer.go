package mock

import (
	"context"

	"github.com/fwojciec/techdocs"
)

var _ techdocs.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of techdocs.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*techdocs.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*techdocs.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ techdocs.Converter = (*Converter)(nil)

// Converter is a mock implementation of techdocs.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ techdocs.Refiner = (*Refiner)(nil)

// Refiner is a mock implementation of techdocs.Refiner.
type Refiner struct {
	RefineFn func(ctx context.Context, markdown string) (string, error)
}

func (r *Refiner) Refine(ctx context.Context, markdown string) (string, error) {
	return r.RefineFn(ctx, markdown)
}

var _ techdocs.SnippetExtractor = (*SnippetExtractor)(nil)

// SnippetExtractor is a mock implementation of techdocs.SnippetExtractor.
type SnippetExtractor struct {
	ExtractSnippetsFn func(ctx context.Context, markdown string) ([]techdocs.SnippetDraft, error)
}

func (s *SnippetExtractor) ExtractSnippets(ctx context.Context, markdown string) ([]techdocs.SnippetDraft, error) {
	return s.ExtractSnippetsFn(ctx, markdown)
}

var _ techdocs.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of techdocs.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

package techdocs

import "context"

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar, ads) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown. The input should be
	// clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}

// Refiner cleans up converted markdown using an AI model: fixing broken
// formatting and dropping navigation chrome while preserving technical
// content. Implementations return ERATELIMIT when the upstream model
// signals rate limiting so callers can apply backoff.
type Refiner interface {
	Refine(ctx context.Context, markdown string) (string, error)
}

// SnippetDraft is a structured documentation unit extracted from markdown,
// before persistence and embedding.
type SnippetDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Concepts    []string `json:"concepts"`
}

// SnippetExtractor splits markdown into self-contained documentation
// snippets. Returns ERATELIMIT when the upstream model signals rate
// limiting.
type SnippetExtractor interface {
	ExtractSnippets(ctx context.Context, markdown string) ([]SnippetDraft, error)
}

// Embedder generates embedding vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TokenCounter counts model tokens in text, used to keep prompts within the
// model's context budget.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

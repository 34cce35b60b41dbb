package gemini

import (
	"context"
	"encoding/json"

	"google.golang.org/genai"

	"github.com/fwojciec/techdocs"
)

// Ensure SnippetExtractor implements techdocs.SnippetExtractor at compile time.
var _ techdocs.SnippetExtractor = (*SnippetExtractor)(nil)

// maxInputTokens bounds the markdown sent in one extraction call. Longer
// documents are split on paragraph boundaries and extracted per chunk.
const maxInputTokens = 100000

// SnippetExtractor implements techdocs.SnippetExtractor using Google Gemini
// with a JSON response schema.
type SnippetExtractor struct {
	client  *genai.Client
	counter techdocs.TokenCounter
}

// NewSnippetExtractor creates a new SnippetExtractor. The counter may be nil,
// in which case documents are never chunked.
func NewSnippetExtractor(client *genai.Client, counter techdocs.TokenCounter) *SnippetExtractor {
	return &SnippetExtractor{client: client, counter: counter}
}

// ExtractSnippets splits markdown documentation into self-contained snippets.
func (e *SnippetExtractor) ExtractSnippets(ctx context.Context, markdown string) ([]techdocs.SnippetDraft, error) {
	if markdown == "" {
		return nil, techdocs.Errorf(techdocs.EINVALID, "markdown required")
	}

	chunks, err := e.chunk(ctx, markdown)
	if err != nil {
		return nil, err
	}

	var drafts []techdocs.SnippetDraft
	for _, chunk := range chunks {
		part, err := e.extractChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, part...)
	}
	return drafts, nil
}

func (e *SnippetExtractor) extractChunk(ctx context.Context, markdown string) ([]techdocs.SnippetDraft, error) {
	result, err := e.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: markdown}},
		}},
		extractConfig(),
	)
	if err != nil {
		return nil, wrapErr(err)
	}
	if result == nil {
		return nil, techdocs.Errorf(techdocs.EINTERNAL, "gemini returned nil result")
	}

	var drafts []techdocs.SnippetDraft
	if err := json.Unmarshal([]byte(result.Text()), &drafts); err != nil {
		return nil, techdocs.Errorf(techdocs.EINTERNAL, "failed to parse snippet response: %v", err)
	}
	return drafts, nil
}

// chunk splits markdown into pieces under the token budget, breaking on
// blank lines so snippets are not cut mid-section.
func (e *SnippetExtractor) chunk(ctx context.Context, markdown string) ([]string, error) {
	if e.counter == nil {
		return []string{markdown}, nil
	}

	total, err := e.counter.CountTokens(ctx, markdown)
	if err != nil || total <= maxInputTokens {
		return []string{markdown}, nil
	}

	parts := splitParagraphs(markdown)
	var chunks []string
	var current string
	for _, p := range parts {
		candidate := current
		if candidate != "" {
			candidate += "\n\n"
		}
		candidate += p

		n, err := e.counter.CountTokens(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if n > maxInputTokens && current != "" {
			chunks = append(chunks, current)
			current = p
			continue
		}
		current = candidate
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks, nil
}

// extractConfig returns the GenerateContentConfig for snippet extraction,
// constraining the response to a JSON array of snippet objects.
func extractConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You split technical documentation into self-contained snippets. " +
					"Each snippet covers one concept, API, or task, includes any relevant code example, " +
					"and makes sense when read alone. Write a short searchable title and a one-sentence " +
					"description for each, and list the concepts it covers.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"content":     {Type: genai.TypeString},
					"concepts": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
				},
				Required: []string{"title", "description", "content"},
			},
		},
	}
}

// splitParagraphs splits text on blank lines.
func splitParagraphs(text string) []string {
	var parts []string
	start := 0
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '\n' && text[i+1] == '\n' {
			if p := text[start:i]; p != "" {
				parts = append(parts, p)
			}
			start = i + 2
		}
	}
	if p := text[start:]; p != "" {
		parts = append(parts, p)
	}
	return parts
}

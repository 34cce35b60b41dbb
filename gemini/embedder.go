package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/fwojciec/techdocs"
)

// Ensure Embedder implements techdocs.Embedder at compile time.
var _ techdocs.Embedder = (*Embedder)(nil)

// Embedder implements techdocs.Embedder using the Gemini embedding model.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// Embed generates an embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, techdocs.Errorf(techdocs.EINVALID, "text required")
	}

	result, err := e.client.Models.EmbedContent(ctx, embeddingModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: text}},
		}},
		nil,
	)
	if err != nil {
		return nil, wrapErr(err)
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, techdocs.Errorf(techdocs.EINTERNAL, "gemini returned no embedding")
	}

	return result.Embeddings[0].Values, nil
}

package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/fwojciec/techdocs"
)

// Ensure Refiner implements techdocs.Refiner at compile time.
var _ techdocs.Refiner = (*Refiner)(nil)

// Refiner implements techdocs.Refiner using Google Gemini.
type Refiner struct {
	client *genai.Client
}

// NewRefiner creates a new Refiner.
func NewRefiner(client *genai.Client) *Refiner {
	return &Refiner{client: client}
}

// Refine cleans up converted markdown, removing navigation chrome and
// fixing formatting broken by HTML conversion.
func (r *Refiner) Refine(ctx context.Context, markdown string) (string, error) {
	if markdown == "" {
		return "", techdocs.Errorf(techdocs.EINVALID, "markdown required")
	}

	result, err := r.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: markdown}},
		}},
		refineConfig(),
	)
	if err != nil {
		return "", wrapErr(err)
	}
	if result == nil {
		return "", techdocs.Errorf(techdocs.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// refineConfig returns the GenerateContentConfig for markdown cleanup calls.
func refineConfig() *genai.GenerateContentConfig {
	temp := float32(0.1)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You clean up markdown extracted from technical documentation pages. " +
					"Remove navigation menus, breadcrumbs, cookie banners, footers, and other page chrome. " +
					"Fix formatting broken by HTML conversion: heading levels, code fences, tables, and lists. " +
					"Preserve all technical content, code examples, and their order exactly. " +
					"Return only the cleaned markdown with no commentary.",
			}},
		},
		Temperature: &temp,
	}
}

package crawl

import (
	"context"

	"github.com/fwojciec/techdocs"
)

// Processor executes the post-crawl stages: AI markdown cleanup and snippet
// generation. Both stages call rate-limited upstream models, so every model
// call goes through RetryRateLimited.
type Processor struct {
	Resources techdocs.ResourceService
	Snippets  techdocs.SnippetService
	Refiner   techdocs.Refiner
	Extractor techdocs.SnippetExtractor
	Embedder  techdocs.Embedder
	Events    techdocs.EventSink
}

// HandleClean processes a clean_content task: it refines the extracted
// markdown through the AI model and records the result.
func (p *Processor) HandleClean(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
	result := techdocs.TaskResult{ResourceID: task.Payload.ResourceID}

	res, err := p.Resources.FindResourceByID(ctx, task.Payload.ResourceID)
	if err != nil {
		return result, err
	}
	if res.Extracted == "" {
		return result, techdocs.Errorf(techdocs.EINVALID, "resource %s has no extracted markdown to clean", res.ID)
	}
	// Re-enqueued task for an already cleaned resource is a no-op.
	if res.Status == techdocs.StatusMarkdownReady && res.Refined != "" {
		return result, nil
	}

	if _, err := p.setStatus(ctx, res.ID, techdocs.StatusConvertingMarkdown); err != nil {
		return result, err
	}
	p.events().TaskUpdated(task.ID, 30, "cleaning markdown")

	refined, err := RetryRateLimited(ctx, task.Token(), func(ctx context.Context) (string, error) {
		return p.Refiner.Refine(ctx, res.Extracted)
	})
	if err != nil {
		if techdocs.ErrorCode(err) == techdocs.ECANCELLED {
			// Cancellation lands in the error state, which a retry request
			// can re-enter.
			if _, serr := p.setStatus(ctx, res.ID, techdocs.StatusMarkdownError); serr != nil {
				return result, serr
			}
			return result, err
		}
		// Keep a usable prior result rather than overwriting it with an
		// error state.
		if res.Refined != "" {
			if _, serr := p.setStatus(ctx, res.ID, techdocs.StatusMarkdownReady); serr != nil {
				return result, serr
			}
			return result, nil
		}
		if _, serr := p.setStatus(ctx, res.ID, techdocs.StatusMarkdownError); serr != nil {
			return result, serr
		}
		return result, err
	}

	status := techdocs.StatusMarkdownReady
	if _, err := p.Resources.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{
		Status:  &status,
		Refined: &refined,
	}); err != nil {
		return result, err
	}
	p.events().ResourceStatusChanged(res.ID, status)

	return result, nil
}

// HandleSnippets processes a generate_snippets task: the resource's best
// markdown is split into structured snippets, each snippet is embedded, and
// the set replaces any snippets previously generated from the same page.
func (p *Processor) HandleSnippets(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
	result := techdocs.TaskResult{ResourceID: task.Payload.ResourceID}

	res, err := p.Resources.FindResourceByID(ctx, task.Payload.ResourceID)
	if err != nil {
		return result, err
	}
	markdown := res.Content()
	if markdown == "" {
		return result, techdocs.Errorf(techdocs.EINVALID, "resource %s has no markdown to process", res.ID)
	}

	if _, err := p.setStatus(ctx, res.ID, techdocs.StatusProcessing); err != nil {
		return result, err
	}
	p.events().TaskUpdated(task.ID, 20, "extracting snippets")

	drafts, err := RetryRateLimited(ctx, task.Token(), func(ctx context.Context) ([]techdocs.SnippetDraft, error) {
		return p.Extractor.ExtractSnippets(ctx, markdown)
	})
	if err != nil {
		if _, serr := p.setStatus(ctx, res.ID, techdocs.StatusProcessingError); serr != nil {
			return result, serr
		}
		return result, err
	}

	// Regeneration replaces the page's previous snippets instead of
	// accumulating duplicates.
	if err := p.Snippets.DeleteSnippetsForResource(ctx, res.VersionID, res.URL); err != nil {
		if _, serr := p.setStatus(ctx, res.ID, techdocs.StatusProcessingError); serr != nil {
			return result, serr
		}
		return result, err
	}

	stored := 0
	for i, draft := range drafts {
		if task.Token().Cancelled() {
			if _, serr := p.setStatus(ctx, res.ID, techdocs.StatusProcessingError); serr != nil {
				return result, serr
			}
			return result, techdocs.Errorf(techdocs.ECANCELLED, "snippet generation cancelled")
		}

		embedding, err := RetryRateLimited(ctx, task.Token(), func(ctx context.Context) ([]float32, error) {
			return p.Embedder.Embed(ctx, embeddingInput(draft))
		})
		if err != nil {
			// One failed embedding loses one snippet, not the page.
			continue
		}

		snippet := &techdocs.Snippet{
			TechnologyID: res.TechnologyID,
			VersionID:    res.VersionID,
			SourceURL:    res.URL,
			Title:        draft.Title,
			Description:  draft.Description,
			Content:      draft.Content,
			Concepts:     draft.Concepts,
			Embedding:    embedding,
		}
		if err := p.Snippets.CreateSnippet(ctx, snippet); err != nil {
			continue
		}
		stored++

		if len(drafts) > 0 {
			progress := 20 + (75*(i+1))/len(drafts)
			p.events().TaskUpdated(task.ID, progress, "storing snippets")
		}
	}

	if stored == 0 && len(drafts) > 0 {
		if _, serr := p.setStatus(ctx, res.ID, techdocs.StatusProcessingError); serr != nil {
			return result, serr
		}
		return result, techdocs.Errorf(techdocs.EINTERNAL, "failed to store any of %d snippets for resource %s", len(drafts), res.ID)
	}

	status := techdocs.StatusProcessed
	if _, err := p.Resources.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{Status: &status}); err != nil {
		return result, err
	}
	p.events().ResourceStatusChanged(res.ID, status)

	result.SnippetCount = stored
	return result, nil
}

func (p *Processor) setStatus(ctx context.Context, id string, status techdocs.Status) (*techdocs.Resource, error) {
	res, err := p.Resources.UpdateResource(ctx, id, techdocs.ResourceUpdate{Status: &status})
	if err != nil {
		return nil, err
	}
	p.events().ResourceStatusChanged(id, status)
	return res, nil
}

func (p *Processor) events() techdocs.EventSink {
	if p.Events == nil {
		return techdocs.NopSink{}
	}
	return p.Events
}

// embeddingInput builds the text embedded for a snippet. Title and
// description are included so short code-heavy snippets still carry
// searchable context.
func embeddingInput(d techdocs.SnippetDraft) string {
	s := d.Title
	if d.Description != "" {
		s += "\n" + d.Description
	}
	if d.Content != "" {
		s += "\n" + d.Content
	}
	return s
}

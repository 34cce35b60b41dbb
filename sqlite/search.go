package sqlite

import (
	"context"
	"math"
	"sort"

	"github.com/fwojciec/techdocs"
)

// Compile-time interface verification.
var _ techdocs.SearchService = (*SearchService)(nil)

// defaultSearchLimit bounds result sets when the caller does not.
const defaultSearchLimit = 10

// SearchService implements semantic search over stored snippets. The query
// is embedded once and scored against snippet embeddings by cosine
// similarity in process; at documentation-site scale a brute-force scan is
// well within budget and avoids a vector index dependency.
type SearchService struct {
	db       *DB
	snippets techdocs.SnippetService
	embedder techdocs.Embedder
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB, snippets techdocs.SnippetService, embedder techdocs.Embedder) *SearchService {
	return &SearchService{db: db, snippets: snippets, embedder: embedder}
}

// Search embeds the query and returns snippets ordered by descending cosine
// similarity.
func (s *SearchService) Search(ctx context.Context, query string, opts techdocs.SearchOptions) ([]techdocs.SearchResult, error) {
	if query == "" {
		return nil, techdocs.Errorf(techdocs.EINVALID, "search query required")
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	filter := techdocs.SnippetFilter{}
	if opts.TechnologyID != "" {
		filter.TechnologyID = &opts.TechnologyID
	}
	if opts.VersionID != "" {
		filter.VersionID = &opts.VersionID
	}

	snippets, err := s.snippets.FindSnippets(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := make([]techdocs.SearchResult, 0, len(snippets))
	for _, snippet := range snippets {
		if len(snippet.Embedding) == 0 {
			continue
		}
		score := cosineSimilarity(queryVec, snippet.Embedding)
		if score < opts.MinScore {
			continue
		}
		results = append(results, techdocs.SearchResult{Snippet: snippet, Score: score})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score zero.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/techdocs"
)

// Compile-time interface verification.
var _ techdocs.SnippetService = (*SnippetService)(nil)

// SnippetService implements techdocs.SnippetService using SQLite. Concepts
// are stored as a JSON array and embeddings as little-endian float32 BLOBs.
type SnippetService struct {
	db *DB
}

// NewSnippetService creates a new SnippetService.
func NewSnippetService(db *DB) *SnippetService {
	return &SnippetService{db: db}
}

// CreateSnippet creates a new snippet.
func (s *SnippetService) CreateSnippet(ctx context.Context, snippet *techdocs.Snippet) error {
	if err := snippet.Validate(); err != nil {
		return err
	}

	snippet.ID = uuid.New().String()
	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	concepts, err := json.Marshal(snippet.Concepts)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snippets (id, technology_id, version_id, source_url, title, description, content, concepts, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, snippet.ID, snippet.TechnologyID, snippet.VersionID, snippet.SourceURL,
		snippet.Title, snippet.Description, snippet.Content, string(concepts),
		encodeEmbedding(snippet.Embedding),
		snippet.CreatedAt.Format(time.RFC3339), snippet.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindSnippetByID retrieves a snippet by ID.
func (s *SnippetService) FindSnippetByID(ctx context.Context, id string) (*techdocs.Snippet, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, technology_id, version_id, source_url, title, description, content, concepts, embedding, created_at, updated_at
		FROM snippets
		WHERE id = ?
	`, id)

	snippet, err := scanSnippet(row.Scan)
	if err == sql.ErrNoRows {
		return nil, techdocs.Errorf(techdocs.ENOTFOUND, "snippet not found")
	}
	return snippet, err
}

// FindSnippets retrieves snippets matching the filter in creation order.
func (s *SnippetService) FindSnippets(ctx context.Context, filter techdocs.SnippetFilter) ([]*techdocs.Snippet, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, technology_id, version_id, source_url, title, description, content, concepts, embedding, created_at, updated_at
		FROM snippets WHERE 1=1`)

	if filter.TechnologyID != nil {
		query.WriteString(" AND technology_id = ?")
		args = append(args, *filter.TechnologyID)
	}
	if filter.VersionID != nil {
		query.WriteString(" AND version_id = ?")
		args = append(args, *filter.VersionID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY created_at ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snippets []*techdocs.Snippet
	for rows.Next() {
		snippet, err := scanSnippet(rows.Scan)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, snippet)
	}

	return snippets, rows.Err()
}

// DeleteSnippetsForResource removes all snippets extracted from a source URL
// within a version.
func (s *SnippetService) DeleteSnippetsForResource(ctx context.Context, versionID, sourceURL string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM snippets WHERE version_id = ? AND source_url = ?",
		versionID, sourceURL)
	return err
}

// scanSnippet decodes one snippets row using the provided scan function.
func scanSnippet(scan func(dest ...any) error) (*techdocs.Snippet, error) {
	var snippet techdocs.Snippet
	var concepts, createdAt, updatedAt string
	var embedding []byte

	err := scan(&snippet.ID, &snippet.TechnologyID, &snippet.VersionID, &snippet.SourceURL,
		&snippet.Title, &snippet.Description, &snippet.Content, &concepts, &embedding,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if concepts != "" && concepts != "null" {
		if err := json.Unmarshal([]byte(concepts), &snippet.Concepts); err != nil {
			return nil, err
		}
	}
	snippet.Embedding = decodeEmbedding(embedding)

	if snippet.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if snippet.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &snippet, nil
}

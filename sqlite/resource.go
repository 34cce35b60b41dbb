package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/techdocs"
)

// Compile-time interface verification.
var _ techdocs.ResourceService = (*ResourceService)(nil)

// ResourceService implements techdocs.ResourceService using SQLite. The
// resources table carries a UNIQUE(technology_id, version_id, url)
// constraint; concurrent discovery of the same URL loses the insert race
// and surfaces as ECONFLICT.
type ResourceService struct {
	db *DB
}

// NewResourceService creates a new ResourceService.
func NewResourceService(db *DB) *ResourceService {
	return &ResourceService{db: db}
}

// CreateResource creates a new resource. An unset status defaults to
// pending_crawl.
func (s *ResourceService) CreateResource(ctx context.Context, res *techdocs.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}

	if res.Status == "" {
		res.Status = techdocs.StatusPendingCrawl
	}
	if !res.Status.Valid() {
		return techdocs.Errorf(techdocs.EINVALID, "unknown resource status %q", res.Status)
	}

	res.ID = uuid.New().String()
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resources (id, technology_id, version_id, url, status, raw_content, extracted, refined, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, res.ID, res.TechnologyID, res.VersionID, res.URL, string(res.Status),
		res.RawContent, res.Extracted, res.Refined, res.ContentHash,
		res.CreatedAt.Format(time.RFC3339), res.UpdatedAt.Format(time.RFC3339))

	if isUniqueViolation(err) {
		return techdocs.Errorf(techdocs.ECONFLICT, "resource already exists for URL %s", res.URL)
	}
	return err
}

// FindResourceByID retrieves a resource by ID.
func (s *ResourceService) FindResourceByID(ctx context.Context, id string) (*techdocs.Resource, error) {
	return s.findOne(ctx, "id = ?", id)
}

// FindResourceByURL retrieves a resource by its unique key.
func (s *ResourceService) FindResourceByURL(ctx context.Context, technologyID, versionID, url string) (*techdocs.Resource, error) {
	return s.findOne(ctx, "technology_id = ? AND version_id = ? AND url = ?", technologyID, versionID, url)
}

func (s *ResourceService) findOne(ctx context.Context, where string, args ...any) (*techdocs.Resource, error) {
	var res techdocs.Resource
	var status, createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, technology_id, version_id, url, status, raw_content, extracted, refined, content_hash, created_at, updated_at
		FROM resources
		WHERE `+where,
		args...,
	).Scan(&res.ID, &res.TechnologyID, &res.VersionID, &res.URL, &status,
		&res.RawContent, &res.Extracted, &res.Refined, &res.ContentHash, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, techdocs.Errorf(techdocs.ENOTFOUND, "resource not found")
	}
	if err != nil {
		return nil, err
	}

	res.Status = techdocs.Status(status)
	if res.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if res.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &res, nil
}

// FindResourcesForVersion retrieves all resources for a version in creation
// order.
func (s *ResourceService) FindResourcesForVersion(ctx context.Context, versionID string) ([]*techdocs.Resource, error) {
	var query strings.Builder
	var args []any
	query.WriteString(`
		SELECT id, technology_id, version_id, url, status, raw_content, extracted, refined, content_hash, created_at, updated_at
		FROM resources
		WHERE version_id = ?
		ORDER BY created_at ASC`)
	args = append(args, versionID)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []*techdocs.Resource
	for rows.Next() {
		var res techdocs.Resource
		var status, createdAt, updatedAt string

		if err := rows.Scan(&res.ID, &res.TechnologyID, &res.VersionID, &res.URL, &status,
			&res.RawContent, &res.Extracted, &res.Refined, &res.ContentHash, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		res.Status = techdocs.Status(status)
		if res.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if res.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		resources = append(resources, &res)
	}

	return resources, rows.Err()
}

// UpdateResource updates an existing resource. Status changes are validated
// against the lifecycle state machine; an illegal transition is EINVALID
// and nothing is persisted.
func (s *ResourceService) UpdateResource(ctx context.Context, id string, upd techdocs.ResourceUpdate) (*techdocs.Resource, error) {
	res, err := s.FindResourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil && *upd.Status != res.Status {
		if !res.Status.CanTransitionTo(*upd.Status) {
			return nil, techdocs.Errorf(techdocs.EINVALID, "invalid status transition %s -> %s", res.Status, *upd.Status)
		}
		res.Status = *upd.Status
	}
	if upd.RawContent != nil {
		res.RawContent = *upd.RawContent
	}
	if upd.Extracted != nil {
		res.Extracted = *upd.Extracted
	}
	if upd.Refined != nil {
		res.Refined = *upd.Refined
	}
	if upd.ContentHash != nil {
		res.ContentHash = *upd.ContentHash
	}
	res.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE resources
		SET status = ?, raw_content = ?, extracted = ?, refined = ?, content_hash = ?, updated_at = ?
		WHERE id = ?
	`, string(res.Status), res.RawContent, res.Extracted, res.Refined, res.ContentHash,
		res.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// DeleteResource permanently removes a resource.
func (s *ResourceService) DeleteResource(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM resources WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return techdocs.Errorf(techdocs.ENOTFOUND, "resource not found")
	}

	return nil
}

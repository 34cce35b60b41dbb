package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/techdocs"
)

// Compile-time interface verification.
var _ techdocs.TechnologyService = (*TechnologyService)(nil)

// TechnologyService implements techdocs.TechnologyService using SQLite.
type TechnologyService struct {
	db *DB
}

// NewTechnologyService creates a new TechnologyService.
func NewTechnologyService(db *DB) *TechnologyService {
	return &TechnologyService{db: db}
}

// CreateTechnology creates a new technology.
func (s *TechnologyService) CreateTechnology(ctx context.Context, tech *techdocs.Technology) error {
	if err := tech.Validate(); err != nil {
		return err
	}

	tech.ID = uuid.New().String()
	now := time.Now().UTC()
	tech.CreatedAt = now
	tech.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO technologies (id, name, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, tech.ID, tech.Name, tech.Language,
		tech.CreatedAt.Format(time.RFC3339), tech.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindTechnologyByID retrieves a technology by ID.
func (s *TechnologyService) FindTechnologyByID(ctx context.Context, id string) (*techdocs.Technology, error) {
	var tech techdocs.Technology
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, language, created_at, updated_at
		FROM technologies
		WHERE id = ?
	`, id).Scan(&tech.ID, &tech.Name, &tech.Language, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, techdocs.Errorf(techdocs.ENOTFOUND, "technology not found")
	}
	if err != nil {
		return nil, err
	}

	if tech.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if tech.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &tech, nil
}

// FindTechnologies retrieves all technologies ordered by name.
func (s *TechnologyService) FindTechnologies(ctx context.Context) ([]*techdocs.Technology, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, language, created_at, updated_at
		FROM technologies
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var techs []*techdocs.Technology
	for rows.Next() {
		var tech techdocs.Technology
		var createdAt, updatedAt string

		if err := rows.Scan(&tech.ID, &tech.Name, &tech.Language, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if tech.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if tech.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		techs = append(techs, &tech)
	}

	return techs, rows.Err()
}

// DeleteTechnology permanently removes a technology. Versions, resources,
// and snippets cascade.
func (s *TechnologyService) DeleteTechnology(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM technologies WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return techdocs.Errorf(techdocs.ENOTFOUND, "technology not found")
	}

	return nil
}

// Compile-time interface verification.
var _ techdocs.VersionService = (*VersionService)(nil)

// VersionService implements techdocs.VersionService using SQLite.
type VersionService struct {
	db *DB
}

// NewVersionService creates a new VersionService.
func NewVersionService(db *DB) *VersionService {
	return &VersionService{db: db}
}

// CreateVersion creates a new version.
func (s *VersionService) CreateVersion(ctx context.Context, ver *techdocs.Version) error {
	if err := ver.Validate(); err != nil {
		return err
	}

	ver.ID = uuid.New().String()
	now := time.Now().UTC()
	ver.CreatedAt = now
	ver.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO technology_versions (id, technology_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, ver.ID, ver.TechnologyID, ver.Name,
		ver.CreatedAt.Format(time.RFC3339), ver.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindVersionByID retrieves a version by ID.
func (s *VersionService) FindVersionByID(ctx context.Context, id string) (*techdocs.Version, error) {
	var ver techdocs.Version
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, technology_id, name, created_at, updated_at
		FROM technology_versions
		WHERE id = ?
	`, id).Scan(&ver.ID, &ver.TechnologyID, &ver.Name, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, techdocs.Errorf(techdocs.ENOTFOUND, "version not found")
	}
	if err != nil {
		return nil, err
	}

	if ver.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if ver.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &ver, nil
}

// FindVersionsForTechnology retrieves all versions of a technology.
func (s *VersionService) FindVersionsForTechnology(ctx context.Context, technologyID string) ([]*techdocs.Version, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, technology_id, name, created_at, updated_at
		FROM technology_versions
		WHERE technology_id = ?
		ORDER BY created_at ASC
	`, technologyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vers []*techdocs.Version
	for rows.Next() {
		var ver techdocs.Version
		var createdAt, updatedAt string

		if err := rows.Scan(&ver.ID, &ver.TechnologyID, &ver.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if ver.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if ver.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		vers = append(vers, &ver)
	}

	return vers, rows.Err()
}

// DeleteVersion permanently removes a version. Resources and snippets
// cascade.
func (s *VersionService) DeleteVersion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM technology_versions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return techdocs.Errorf(techdocs.ENOTFOUND, "version not found")
	}

	return nil
}

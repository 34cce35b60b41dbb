package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/techdocs"
)

// Compile-time interface verification.
var _ techdocs.SettingsService = (*SettingsService)(nil)

// SettingsService implements techdocs.SettingsService using SQLite. At most
// one settings row exists per version; SaveSettings upserts.
type SettingsService struct {
	db *DB
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *DB) *SettingsService {
	return &SettingsService{db: db}
}

// FindSettingsForVersion retrieves the settings for a version.
func (s *SettingsService) FindSettingsForVersion(ctx context.Context, versionID string) (*techdocs.CrawlSettings, error) {
	var settings techdocs.CrawlSettings
	var antiPaths, antiKeywords, createdAt, updatedAt string
	var skipProcessed int

	err := s.db.QueryRowContext(ctx, `
		SELECT id, version_id, prefix_path, anti_paths, anti_keywords, skip_processed, created_at, updated_at
		FROM crawl_settings
		WHERE version_id = ?
	`, versionID).Scan(&settings.ID, &settings.VersionID, &settings.PrefixPath,
		&antiPaths, &antiKeywords, &skipProcessed, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, techdocs.Errorf(techdocs.ENOTFOUND, "no crawl settings for version %s", versionID)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(antiPaths), &settings.AntiPaths); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(antiKeywords), &settings.AntiKeywords); err != nil {
		return nil, err
	}
	settings.SkipProcessed = skipProcessed != 0

	if settings.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if settings.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &settings, nil
}

// SaveSettings creates or replaces the settings for a version.
func (s *SettingsService) SaveSettings(ctx context.Context, settings *techdocs.CrawlSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	antiPaths, err := json.Marshal(settings.AntiPaths)
	if err != nil {
		return err
	}
	antiKeywords, err := json.Marshal(settings.AntiKeywords)
	if err != nil {
		return err
	}

	skipProcessed := 0
	if settings.SkipProcessed {
		skipProcessed = 1
	}

	now := time.Now().UTC()
	settings.UpdatedAt = now

	existing, err := s.FindSettingsForVersion(ctx, settings.VersionID)
	if err != nil && techdocs.ErrorCode(err) != techdocs.ENOTFOUND {
		return err
	}

	if existing != nil {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
		_, err = s.db.ExecContext(ctx, `
			UPDATE crawl_settings
			SET prefix_path = ?, anti_paths = ?, anti_keywords = ?, skip_processed = ?, updated_at = ?
			WHERE version_id = ?
		`, settings.PrefixPath, string(antiPaths), string(antiKeywords), skipProcessed,
			settings.UpdatedAt.Format(time.RFC3339), settings.VersionID)
		return err
	}

	settings.ID = uuid.New().String()
	settings.CreatedAt = now
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO crawl_settings (id, version_id, prefix_path, anti_paths, anti_keywords, skip_processed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, settings.ID, settings.VersionID, settings.PrefixPath, string(antiPaths), string(antiKeywords),
		skipProcessed, settings.CreatedAt.Format(time.RFC3339), settings.UpdatedAt.Format(time.RFC3339))
	return err
}

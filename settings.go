package techdocs

import (
	"context"
	"time"
)

// CrawlSettings holds the persisted filter configuration for a version.
// They seed CrawlConfig for new runs and drive retroactive filter
// application over already-discovered resources.
type CrawlSettings struct {
	ID            string    `json:"id"`
	VersionID     string    `json:"versionId"`
	PrefixPath    string    `json:"prefixPath"`
	AntiPaths     []string  `json:"antiPaths"`
	AntiKeywords  []string  `json:"antiKeywords"`
	SkipProcessed bool      `json:"skipProcessed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate returns an error if the settings contain invalid fields.
func (s *CrawlSettings) Validate() error {
	if s.VersionID == "" {
		return Errorf(EINVALID, "settings version ID required")
	}
	return nil
}

// SettingsService persists per-version crawl settings.
type SettingsService interface {
	// FindSettingsForVersion retrieves the settings for a version.
	// Returns ENOTFOUND if none have been saved.
	FindSettingsForVersion(ctx context.Context, versionID string) (*CrawlSettings, error)

	// SaveSettings creates or replaces the settings for a version.
	SaveSettings(ctx context.Context, settings *CrawlSettings) error
}

package mock

import (
	"context"

	"github.com/fwojciec/techdocs"
)

var _ techdocs.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of techdocs.SettingsService.
type SettingsService struct {
	FindSettingsForVersionFn func(ctx context.Context, versionID string) (*techdocs.CrawlSettings, error)
	SaveSettingsFn           func(ctx context.Context, settings *techdocs.CrawlSettings) error
}

func (s *SettingsService) FindSettingsForVersion(ctx context.Context, versionID string) (*techdocs.CrawlSettings, error) {
	return s.FindSettingsForVersionFn(ctx, versionID)
}

func (s *SettingsService) SaveSettings(ctx context.Context, settings *techdocs.CrawlSettings) error {
	return s.SaveSettingsFn(ctx, settings)
}

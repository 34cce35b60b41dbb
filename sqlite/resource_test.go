package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fwojciec/techdocs"
	"github.com/fwojciec/techdocs/sqlite"
)

func TestResourceService_CreateResource(t *testing.T) {
	t.Parallel()

	t.Run("creates resource with pending status by default", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewResourceService(db)
		ctx := context.Background()

		res := &techdocs.Resource{
			TechnologyID: techID,
			VersionID:    verID,
			URL:          "https://docs.example.com/v1/intro",
		}
		require.NoError(t, s.CreateResource(ctx, res))
		require.NotEmpty(t, res.ID)
		require.Equal(t, techdocs.StatusPendingCrawl, res.Status)
		require.False(t, res.CreatedAt.IsZero())
	})

	t.Run("returns ECONFLICT for duplicate URL in same version", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewResourceService(db)
		ctx := context.Background()

		url := "https://docs.example.com/v1/intro"
		require.NoError(t, s.CreateResource(ctx, &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: url}))

		err := s.CreateResource(ctx, &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: url})
		require.Error(t, err)
		require.Equal(t, techdocs.ECONFLICT, techdocs.ErrorCode(err))
	})

	t.Run("allows same URL in a different version", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		ctx := context.Background()

		other := &techdocs.Version{TechnologyID: techID, Name: "19.0"}
		require.NoError(t, sqlite.NewVersionService(db).CreateVersion(ctx, other))

		s := sqlite.NewResourceService(db)
		url := "https://docs.example.com/v1/intro"
		require.NoError(t, s.CreateResource(ctx, &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: url}))
		require.NoError(t, s.CreateResource(ctx, &techdocs.Resource{TechnologyID: techID, VersionID: other.ID, URL: url}))
	})

	t.Run("validates required fields", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewResourceService(db)

		err := s.CreateResource(context.Background(), &techdocs.Resource{VersionID: "v", URL: "u"})
		require.Equal(t, techdocs.EINVALID, techdocs.ErrorCode(err))
	})
}

func TestResourceService_FindResource(t *testing.T) {
	t.Parallel()

	t.Run("finds by ID and by URL", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewResourceService(db)
		ctx := context.Background()

		res := &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: "https://docs.example.com/v1/api"}
		require.NoError(t, s.CreateResource(ctx, res))

		byID, err := s.FindResourceByID(ctx, res.ID)
		require.NoError(t, err)
		require.Equal(t, res.URL, byID.URL)

		byURL, err := s.FindResourceByURL(ctx, techID, verID, res.URL)
		require.NoError(t, err)
		require.Equal(t, res.ID, byURL.ID)
	})

	t.Run("returns ENOTFOUND for missing resource", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewResourceService(db)

		_, err := s.FindResourceByID(context.Background(), "nope")
		require.Equal(t, techdocs.ENOTFOUND, techdocs.ErrorCode(err))
	})

	t.Run("lists resources for a version", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewResourceService(db)
		ctx := context.Background()

		require.NoError(t, s.CreateResource(ctx, &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: "https://docs.example.com/a"}))
		require.NoError(t, s.CreateResource(ctx, &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: "https://docs.example.com/b"}))

		resources, err := s.FindResourcesForVersion(ctx, verID)
		require.NoError(t, err)
		require.Len(t, resources, 2)
	})
}

func TestResourceService_UpdateResource(t *testing.T) {
	t.Parallel()

	t.Run("applies a valid status transition", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewResourceService(db)
		ctx := context.Background()

		res := &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: "https://docs.example.com/v1"}
		require.NoError(t, s.CreateResource(ctx, res))

		status := techdocs.StatusCrawling
		updated, err := s.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{Status: &status})
		require.NoError(t, err)
		require.Equal(t, techdocs.StatusCrawling, updated.Status)

		stored, err := s.FindResourceByID(ctx, res.ID)
		require.NoError(t, err)
		require.Equal(t, techdocs.StatusCrawling, stored.Status)
	})

	t.Run("rejects an invalid status transition", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewResourceService(db)
		ctx := context.Background()

		res := &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: "https://docs.example.com/v1"}
		require.NoError(t, s.CreateResource(ctx, res))

		status := techdocs.StatusProcessed
		_, err := s.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{Status: &status})
		require.Equal(t, techdocs.EINVALID, techdocs.ErrorCode(err))

		// Nothing was persisted.
		stored, err := s.FindResourceByID(ctx, res.ID)
		require.NoError(t, err)
		require.Equal(t, techdocs.StatusPendingCrawl, stored.Status)
	})

	t.Run("updates content fields without status change", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewResourceService(db)
		ctx := context.Background()

		res := &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: "https://docs.example.com/v1"}
		require.NoError(t, s.CreateResource(ctx, res))

		raw := "<html>doc</html>"
		extracted := "# Doc"
		hash := "abc123"
		updated, err := s.UpdateResource(ctx, res.ID, techdocs.ResourceUpdate{
			RawContent:  &raw,
			Extracted:   &extracted,
			ContentHash: &hash,
		})
		require.NoError(t, err)
		require.Equal(t, raw, updated.RawContent)
		require.Equal(t, extracted, updated.Extracted)
		require.Equal(t, hash, updated.ContentHash)
		require.Equal(t, techdocs.StatusPendingCrawl, updated.Status)
	})

	t.Run("returns ENOTFOUND for missing resource", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewResourceService(db)

		status := techdocs.StatusCrawling
		_, err := s.UpdateResource(context.Background(), "nope", techdocs.ResourceUpdate{Status: &status})
		require.Equal(t, techdocs.ENOTFOUND, techdocs.ErrorCode(err))
	})
}

func TestResourceService_DeleteResource(t *testing.T) {
	t.Parallel()

	t.Run("deletes an existing resource", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewResourceService(db)
		ctx := context.Background()

		res := &techdocs.Resource{TechnologyID: techID, VersionID: verID, URL: "https://docs.example.com/v1"}
		require.NoError(t, s.CreateResource(ctx, res))
		require.NoError(t, s.DeleteResource(ctx, res.ID))

		_, err := s.FindResourceByID(ctx, res.ID)
		require.Equal(t, techdocs.ENOTFOUND, techdocs.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for missing resource", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewResourceService(db)

		err := s.DeleteResource(context.Background(), "nope")
		require.Equal(t, techdocs.ENOTFOUND, techdocs.ErrorCode(err))
	})
}

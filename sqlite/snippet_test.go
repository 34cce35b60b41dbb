package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fwojciec/techdocs"
	"github.com/fwojciec/techdocs/sqlite"
)

func TestSnippetService_CreateSnippet(t *testing.T) {
	t.Parallel()

	t.Run("round-trips concepts and embedding", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewSnippetService(db)
		ctx := context.Background()

		snippet := &techdocs.Snippet{
			TechnologyID: techID,
			VersionID:    verID,
			SourceURL:    "https://docs.example.com/v1/hooks",
			Title:        "useState",
			Description:  "State hook basics",
			Content:      "const [count, setCount] = useState(0)",
			Concepts:     []string{"hooks", "state"},
			Embedding:    []float32{0.1, -0.5, 0.25},
		}
		require.NoError(t, s.CreateSnippet(ctx, snippet))
		require.NotEmpty(t, snippet.ID)

		stored, err := s.FindSnippetByID(ctx, snippet.ID)
		require.NoError(t, err)
		require.Equal(t, snippet.Title, stored.Title)
		require.Equal(t, []string{"hooks", "state"}, stored.Concepts)
		require.Equal(t, []float32{0.1, -0.5, 0.25}, stored.Embedding)
	})

	t.Run("validates required fields", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewSnippetService(db)

		err := s.CreateSnippet(context.Background(), &techdocs.Snippet{TechnologyID: "t", VersionID: "v"})
		require.Equal(t, techdocs.EINVALID, techdocs.ErrorCode(err))
	})
}

func TestSnippetService_FindSnippets(t *testing.T) {
	t.Parallel()

	t.Run("filters by version and source URL", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewSnippetService(db)
		ctx := context.Background()

		for _, url := range []string{"https://docs.example.com/a", "https://docs.example.com/a", "https://docs.example.com/b"} {
			require.NoError(t, s.CreateSnippet(ctx, &techdocs.Snippet{
				TechnologyID: techID, VersionID: verID, SourceURL: url, Content: "x",
			}))
		}

		url := "https://docs.example.com/a"
		found, err := s.FindSnippets(ctx, techdocs.SnippetFilter{VersionID: &verID, SourceURL: &url})
		require.NoError(t, err)
		require.Len(t, found, 2)
	})

	t.Run("applies pagination", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewSnippetService(db)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			require.NoError(t, s.CreateSnippet(ctx, &techdocs.Snippet{
				TechnologyID: techID, VersionID: verID, SourceURL: "https://docs.example.com/a", Content: "x",
			}))
		}

		found, err := s.FindSnippets(ctx, techdocs.SnippetFilter{VersionID: &verID, Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, found, 2)
	})
}

func TestSnippetService_DeleteSnippetsForResource(t *testing.T) {
	t.Parallel()

	t.Run("removes only the page's snippets within the version", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		techID, verID := mustCreateVersion(t, db)
		s := sqlite.NewSnippetService(db)
		ctx := context.Background()

		require.NoError(t, s.CreateSnippet(ctx, &techdocs.Snippet{
			TechnologyID: techID, VersionID: verID, SourceURL: "https://docs.example.com/a", Content: "x",
		}))
		require.NoError(t, s.CreateSnippet(ctx, &techdocs.Snippet{
			TechnologyID: techID, VersionID: verID, SourceURL: "https://docs.example.com/b", Content: "y",
		}))

		require.NoError(t, s.DeleteSnippetsForResource(ctx, verID, "https://docs.example.com/a"))

		remaining, err := s.FindSnippets(ctx, techdocs.SnippetFilter{VersionID: &verID})
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		require.Equal(t, "https://docs.example.com/b", remaining[0].SourceURL)
	})
}

package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/techdocs"
	techdocshttp "github.com/fwojciec/techdocs/http"
	"github.com/fwojciec/techdocs/mock"
)

func TestPoliteFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("blocks URLs disallowed by robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
				return
			}
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer srv.Close()

		var fetched []string
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				return "<html>ok</html>", nil
			},
		}

		polite := techdocshttp.NewPoliteFetcher(next, srv.Client())

		_, err := polite.Fetch(context.Background(), srv.URL+"/private/secret")
		require.Error(t, err)
		assert.Equal(t, techdocs.EINVALID, techdocs.ErrorCode(err))
		assert.Empty(t, fetched)

		html, err := polite.Fetch(context.Background(), srv.URL+"/docs/intro")
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Len(t, fetched, 1)
	})

	t.Run("allows everything when robots.txt is missing", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>ok</html>", nil
			},
		}

		polite := techdocshttp.NewPoliteFetcher(next, srv.Client())

		html, err := polite.Fetch(context.Background(), srv.URL+"/anything")
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
	})

	t.Run("caches robots.txt per origin", func(t *testing.T) {
		t.Parallel()

		robotsCalls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				robotsCalls++
				_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
				return
			}
		}))
		defer srv.Close()

		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) { return "", nil },
		}
		polite := techdocshttp.NewPoliteFetcher(next, srv.Client())

		for i := 0; i < 3; i++ {
			_, err := polite.Fetch(context.Background(), srv.URL+"/docs")
			require.NoError(t, err)
		}
		assert.Equal(t, 1, robotsCalls)
	})
}

// Package fs exports crawled documentation as markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/techdocs"
)

// Exporter writes the markdown content of resources to a directory tree
// mirroring their URL paths. Exports are atomic: files are written to a
// temporary directory and moved into place on Commit, so a partially
// written export never replaces a previous one.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates an Exporter. baseDir is the parent directory, name is
// the output directory name. Files are written to baseDir/name.tmp and
// moved to baseDir/name on Commit.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Export writes one resource's markdown to the temporary directory.
// Resources without content are rejected with EINVALID.
func (e *Exporter) Export(ctx context.Context, res *techdocs.Resource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if res.Content() == "" {
		return techdocs.Errorf(techdocs.EINVALID, "resource %s has no content to export", res.ID)
	}

	relPath, err := URLToPath(res.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(e.tempDir(), relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatResource(res)), 0644)
}

// Commit atomically replaces the final directory with the exported files.
func (e *Exporter) Commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards the temporary directory, leaving any previous export
// untouched.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

// URLToPath converts a documentation URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Root or trailing slash becomes index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	return path + ".md", nil
}

// FormatResource formats a resource's markdown with YAML frontmatter.
func FormatResource(res *techdocs.Resource) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(res.URL)
	b.WriteString("\nstatus: ")
	b.WriteString(string(res.Status))
	b.WriteString("\ncrawled: ")
	b.WriteString(res.UpdatedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(res.Content())
	return b.String()
}

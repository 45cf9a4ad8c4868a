// Package fs exports reports as markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/immodiag"
	"gopkg.in/yaml.v3"
)

// ReportPath converts a report to a relative file path grouped by listing.
// Example: review rep-1 of https://www.seloger.com/annonces/42.htm →
// seloger.com/annonces/42/review-rep-1.md
func ReportPath(r *immodiag.Report) (string, error) {
	dir := "sans-url"
	if r.URL != "" {
		u, err := url.Parse(r.URL)
		if err != nil {
			return "", immodiag.Errorf(immodiag.EINVALID, "report URL %q invalid", r.URL)
		}
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if host == "" {
			host = "sans-hote"
		}

		p := strings.Trim(u.Path, "/")
		p = strings.TrimSuffix(p, path.Ext(p))
		if p == "" {
			p = "index"
		}
		dir = host + "/" + p
	}
	return dir + "/" + string(r.Kind) + "-" + r.ID + ".md", nil
}

type frontmatter struct {
	URL         string `yaml:"url,omitempty"`
	Kind        string `yaml:"kind"`
	Provider    string `yaml:"provider,omitempty"`
	Created     string `yaml:"created"`
	ContextHash string `yaml:"context_hash,omitempty"`
}

// FormatReport formats a report with YAML frontmatter.
func FormatReport(r *immodiag.Report) (string, error) {
	fm, err := yaml.Marshal(frontmatter{
		URL:         r.URL,
		Kind:        string(r.Kind),
		Provider:    r.Provider,
		Created:     r.CreatedAt.UTC().Format(time.RFC3339),
		ContextHash: r.ContextHash,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(r.Content)
	if !strings.HasSuffix(r.Content, "\n") {
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Ensure Writer implements immodiag.ReportWriter at compile time.
var _ immodiag.ReportWriter = (*Writer)(nil)

// Writer writes reports as markdown files under a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteReport writes r to disk, replacing any previous export of it.
func (w *Writer) WriteReport(ctx context.Context, r *immodiag.Report) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.ID == "" {
		return immodiag.Errorf(immodiag.EINVALID, "report id required")
	}

	relPath, err := ReportPath(r)
	if err != nil {
		return err
	}
	content, err := FormatReport(r)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

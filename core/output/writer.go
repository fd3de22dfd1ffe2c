// Package output handles writing rewritten documents and cleaning up
// generated images. Rewritten documents mirror the docs tree structure
// under the destination directory.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Writer writes rewritten documents to disk.
type Writer struct {
	DestDir string
}

// New creates a Writer targeting the given destination directory.
// If destDir is empty, it defaults to the current working directory.
func New(destDir string) (*Writer, error) {
	if destDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		destDir = wd
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	return &Writer{DestDir: destDir}, nil
}

// Write stores data at the doc-relative path under the destination,
// mirroring the source tree. ext overrides the document's extension when
// non-empty, for exporters that change the format.
func (w *Writer) Write(relPath string, data []byte, ext string) (string, error) {
	if ext != "" {
		relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath)) + ext
	}

	fullPath := filepath.Join(w.DestDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", filepath.Dir(fullPath), err)
	}

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// NameFromURL converts a URL into a flat document filename.
// Example: https://example.com/docs/intro → example_com_docs_intro.md
func NameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitize(rawURL) + ".md"
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_") + ".md"
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// CleanImages removes previously generated image files. Failures are logged
// and never abort the run; a stale image is a cosmetic problem only.
func CleanImages(paths []string, logger *log.Logger) {
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			logger.Debug("removed generated image", "path", p)
		case os.IsNotExist(err):
		default:
			logger.Warn("failed to remove generated image", "path", p, "err", err)
		}
	}
}

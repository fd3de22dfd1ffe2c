// Package paths implements the PathResolver interface.
// Generated images live in one output tree rooted near the docs root, but a
// document may be rendered into a deeply nested URL path; the embedded
// reference must be relative to the document's own final location, not to
// the docs-root-relative image path.
package paths

import (
	"path"
	"path/filepath"
	"strings"
)

// Resolver computes site-relative image references for rewritten documents.
type Resolver struct{}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// MarkdownPath returns the reference to embed for an image generated at
// imagePath, as seen from the document at docPath (its logical site path,
// e.g. "appendix/guide.md").
//
// Resolution priority:
//  1. relative to docsRoot, when supplied and the result does not escape it
//  2. normalized outputDir + the image file name
//  3. the image file name alone
//
// The result is prefixed with one "../" per directory level the document
// sits below the docs root.
func (r *Resolver) MarkdownPath(imagePath, docPath, outputDir, docsRoot string) string {
	return depthPrefix(docPath) + r.resolveRelative(imagePath, outputDir, docsRoot)
}

// depthPrefix computes the parent-directory prefix for a document path.
// "page.md" yields "", "a/b/page.md" yields "../../".
func depthPrefix(docPath string) string {
	if docPath == "" {
		return ""
	}
	dir := path.Dir(filepath.ToSlash(docPath))
	if dir == "." || dir == "/" {
		return ""
	}
	depth := len(strings.Split(strings.Trim(dir, "/"), "/"))
	return strings.Repeat("../", depth)
}

func (r *Resolver) resolveRelative(imagePath, outputDir, docsRoot string) string {
	if docsRoot != "" {
		if rel, ok := relativeToRoot(imagePath, docsRoot); ok {
			return rel
		}
	}

	normalized := normalizeOutputDir(outputDir)
	name := path.Base(filepath.ToSlash(imagePath))
	if normalized != "" {
		return normalized + "/" + name
	}
	return name
}

// relativeToRoot attempts to express imagePath relative to docsRoot.
// References that would traverse above the root are rejected so a
// misconfigured output directory cannot produce broken "../.." links.
func relativeToRoot(imagePath, docsRoot string) (string, bool) {
	absRoot, err := filepath.Abs(docsRoot)
	if err != nil {
		return "", false
	}
	absImage, err := filepath.Abs(imagePath)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absImage)
	if err != nil {
		return "", false
	}
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// normalizeOutputDir converts an output directory setting to forward-slash
// form without surrounding slashes. Empty and "." normalize to empty,
// meaning the image sits beside the document.
func normalizeOutputDir(outputDir string) string {
	normalized := strings.Trim(filepath.ToSlash(outputDir), "/")
	if normalized == "" || normalized == "." {
		return ""
	}
	return normalized
}

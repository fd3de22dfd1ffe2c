// Package export implements the Exporter interface. After diagrams are
// rewritten into image references, the resulting Markdown can be emitted
// as-is, as a styled PDF, or as a JSON processing report.
package export

import "github.com/mermaid-tools/mermaidpipe/core"

// MarkdownExporter passes the rewritten Markdown through unchanged.
type MarkdownExporter struct{}

// NewMarkdown creates a MarkdownExporter.
func NewMarkdown() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export returns the Markdown bytes as-is.
func (e *MarkdownExporter) Export(markdown string, meta core.DocMeta) ([]byte, error) {
	return []byte(markdown), nil
}

// Extension returns the file extension for Markdown output.
func (e *MarkdownExporter) Extension() string {
	return ".md"
}

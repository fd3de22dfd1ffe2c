// Package core defines the pipeline types and interfaces for mermaidpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"strconv"
)

// DiagramBlock is one fenced mermaid block extracted from a document.
// Start and End are byte offsets into the original text, forming the
// half-open span [Start, End). Attrs holds the brace-delimited fence
// attributes and is empty for plain fences.
type DiagramBlock struct {
	Code  string
	Start int
	End   int
	Attrs map[string]string
}

// RenderOptions is the effective per-block rendering configuration:
// document-wide settings merged with block-level attribute overrides.
// Constructed fresh per block, never persisted.
type RenderOptions struct {
	Theme      string
	Background string
	Width      int
	Height     int
	Scale      int
	Format     string // "svg" or "png"
	CSSFile    string
}

// Merge applies the block's attribute overrides on top of base.
// Invalid numeric width/height values are silently ignored, keeping
// the document-wide value.
func (b DiagramBlock) Merge(base RenderOptions) RenderOptions {
	opts := base
	if theme, ok := b.Attrs["theme"]; ok {
		opts.Theme = theme
	}
	if bg, ok := b.Attrs["background"]; ok {
		opts.Background = bg
	}
	if w, ok := b.Attrs["width"]; ok {
		if n, err := strconv.Atoi(w); err == nil {
			opts.Width = n
		}
	}
	if h, ok := b.Attrs["height"]; ok {
		if n, err := strconv.Atoi(h); err == nil {
			opts.Height = n
		}
	}
	return opts
}

// DocMeta describes a processed document for exporters and reports.
type DocMeta struct {
	SourcePath  string   `json:"source_path"`
	Title       string   `json:"title"`
	ProcessedAt string   `json:"processed_at"` // ISO8601
	BlockCount  int      `json:"block_count"`
	Images      []string `json:"images"`
}

// FetchResult holds the raw document body and response metadata from a fetch.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
}

// Scanner extracts diagram blocks from raw document text.
type Scanner interface {
	Extract(text string) []DiagramBlock
}

// ImageGenerator renders one diagram to an image file on disk.
type ImageGenerator interface {
	Generate(code string, outputPath string, opts RenderOptions) error
}

// PathResolver computes the relative reference embedded in the rewritten
// document for a generated image.
type PathResolver interface {
	MarkdownPath(imagePath, docPath, outputDir, docsRoot string) string
}

// Fetcher retrieves a raw document from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Exporter converts a processed Markdown document into a final output format.
type Exporter interface {
	Export(markdown string, meta DocMeta) ([]byte, error)
	// Extension returns the file extension for this exporter (e.g. ".md", ".pdf").
	Extension() string
}

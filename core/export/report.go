package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mermaid-tools/mermaidpipe/core"
)

// ReportExporter produces a JSON processing report: document metadata, the
// rewritten Markdown, and the structural facts a downstream build can act on
// (generated images, remaining fences, headings).
type ReportExporter struct{}

// NewReport creates a ReportExporter.
func NewReport() *ReportExporter {
	return &ReportExporter{}
}

// docReport is the serialized report shape.
type docReport struct {
	Metadata core.DocMeta `json:"metadata"`
	Markdown string       `json:"markdown"`
	Headings []heading    `json:"headings"`
	// ImageRefs lists every markdown image reference in the rewritten text,
	// generated diagrams included.
	ImageRefs []string `json:"image_refs"`
	// RemainingFences counts code fences still present after rewriting.
	RemainingFences int `json:"remaining_fences"`
}

type heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Export builds the JSON report from the rewritten Markdown and metadata.
func (e *ReportExporter) Export(markdown string, meta core.DocMeta) ([]byte, error) {
	report := docReport{
		Metadata:        meta,
		Markdown:        markdown,
		Headings:        extractHeadings(markdown),
		ImageRefs:       extractImageRefs(markdown),
		RemainingFences: strings.Count(markdown, "```") / 2,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for report output.
func (e *ReportExporter) Extension() string {
	return ".json"
}

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}
	return headings
}

var imageRegex = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)

func extractImageRefs(md string) []string {
	matches := imageRegex.FindAllStringSubmatch(md, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

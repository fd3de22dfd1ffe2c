package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mermaid-tools/mermaidpipe/core"
)

const sampleDoc = `# Guide

Intro paragraph.

![Mermaid Diagram](assets/images/guide_mermaid_0_abcd1234.svg)

## Details

- one
- two

` + "```go\nfunc main() {}\n```" + `
`

func sampleMeta() core.DocMeta {
	return core.DocMeta{
		SourcePath:  "docs/guide.md",
		Title:       "Guide",
		ProcessedAt: "2026-08-25T10:00:00Z",
		BlockCount:  1,
		Images:      []string{"assets/images/guide_mermaid_0_abcd1234.svg"},
	}
}

func TestMarkdownExporterPassthrough(t *testing.T) {
	e := NewMarkdown()

	data, err := e.Export(sampleDoc, sampleMeta())
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(data))
	assert.Equal(t, ".md", e.Extension())
}

func TestReportExporter(t *testing.T) {
	e := NewReport()

	data, err := e.Export(sampleDoc, sampleMeta())
	require.NoError(t, err)
	assert.Equal(t, ".json", e.Extension())

	var report docReport
	require.NoError(t, json.Unmarshal(data, &report))

	assert.Equal(t, "docs/guide.md", report.Metadata.SourcePath)
	assert.Equal(t, sampleDoc, report.Markdown)
	require.Len(t, report.Headings, 2)
	assert.Equal(t, heading{Level: 1, Text: "Guide"}, report.Headings[0])
	assert.Equal(t, heading{Level: 2, Text: "Details"}, report.Headings[1])
	assert.Equal(t, []string{"assets/images/guide_mermaid_0_abcd1234.svg"}, report.ImageRefs)
	assert.Equal(t, 1, report.RemainingFences)
}

func TestPDFExporter(t *testing.T) {
	e := NewPDF()

	data, err := e.Export(sampleDoc, sampleMeta())
	require.NoError(t, err)
	assert.Equal(t, ".pdf", e.Extension())
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
